package taxonomy

var defaultCategories = []Category{
	{
		Name: "Health",
		Subcategories: []string{
			"Human - Health Insurance (Comprehensive)", "Human - Health Insurance (Standard Product)",
			"Human - Health Insurance (Premium)", "Human - Health Insurance (Top-Up)",
			"Human - Health Insurance", "Human - Health (Benefit Only)",
			"Human - Health Insurance (Senior Citizen)", "Human - Critical Illness Cover",
			"Human - Hospital Daily Cash", "Human - Outpatient (OPD) Cover",
		},
		RequiredFields: []string{
			"age_of_eldest_member",
			"family_members_to_cover",
			"sum_insured_preference",
			"city_tier",
			"pre_existing_diseases",
			"specific_need",
		},
	},
	{
		Name: "Accident",
		Subcategories: []string{
			"Human - Personal Accident", "Human - Personal Accident (Government Scheme)",
			"Human - Personal Accident (Micro)", "Human - Personal Accident (Motor Linked)",
			"Accident - Group Personal Accident", "Accident - Student Personal Accident",
			"Accident - Senior Citizen Accident Cover", "Accident - Adventure & Sports Accident",
			"Accident - Disability & Income Protection", "Human - Travel Insurance",
			"Accident - Travel",
		},
		RequiredFields: []string{
			"age",
			"occupation_risk_class",
			"annual_income",
			"sum_insured_preference",
			"travel_duration_days",
			"group_size",
		},
	},
	{
		Name: "Vehicle",
		Subcategories: []string{
			"Vehicle - Private Car (Liability Only)", "Vehicle - Private Car (Long Term Liability)",
			"Vehicle - Two Wheeler (Liability Only)", "Vehicle - Two Wheeler (Own Damage)",
			"Vehicle - Two Wheeler (Long Term Liability)", "Vehicle - Two Wheeler (Comprehensive Long Term)",
			"Vehicle - Commercial (Trucks)", "Vehicle - Commercial / Trade",
			"Vehicle - Special Type (Commercial)",
		},
		RequiredFields: []string{
			"vehicle_category",
			"registration_year",
			"engine_cc_or_gvw",
			"idv_preference",
			"ncb_percentage",
			"policy_tenure_preference",
		},
	},
	{
		Name: "Pet",
		Subcategories: []string{
			"Animal - Pet Insurance", "Animal - Accident Only", "Animal - Commercial/Breeding",
			"Animal - Veterinary Health Insurance", "Animal - Exotic Pets", "Animal - Mortality Insurance",
			"Animal - Wellness (OPD)", "Animal - Senior Care",
		},
		RequiredFields: []string{
			"animal_species",
			"animal_breed",
			"animal_age",
			"market_value_or_purchase_price",
		},
	},
	{
		Name: "Agriculture",
		Subcategories: []string{
			"Animal - Livestock Insurance", "Animal - Livestock (Poultry)",
			"Agriculture - Crop Insurance", "Agriculture - Plantation", "Agriculture - Horticulture",
			"Agriculture - Aquaculture", "Agriculture - Parametric",
			"Rural - Package", "Rural - Government Scheme",
		},
		RequiredFields: []string{
			"crop_or_animal_type",
			"land_area_or_flock_size",
			"input_cost_or_sum_insured",
			"location_risk_zone",
		},
	},
	{
		Name: "Property",
		Subcategories: []string{
			"Property - Home (Standard)", "Property - Home Package", "Property - Commercial",
			"Property - Commercial/Fire", "Property - Industrial", "Property - Large Risk",
			"Property - SME Package", "Property - Personal/Commercial", "Property - Terrorism",
			"Property - Business Interruption",
		},
		RequiredFields: []string{
			"property_type",
			"building_reconstruction_value",
			"contents_market_value",
			"security_measures",
		},
	},
	{
		Name: "Financial",
		Subcategories: []string{
			"Financial - Money in Transit/Safe", "Financial - Banking", "Financial - Guarantee",
			"Financial - Credit Risk", "Financial - Crime/Fraud", "Financial - Employee Fraud",
			"Financial - Loan Protection", "Liability - Cyber / Personal", "Liability - Pet Owner",
		},
		RequiredFields: []string{
			"financial_product_type",
			"annual_turnover",
			"limit_of_liability",
			"number_of_employees",
		},
	},
	{
		Name: "Specialized",
		Subcategories: []string{
			"Commercial - Jeweller's Block", "Asset Protection - Personal/Group",
		},
		RequiredFields: []string{
			"item_description",
			"invoice_value",
			"item_age",
		},
	},
}

var defaultFallback = []string{"age", "occupation", "budget", "sum_insured_preference"}

var defaultTaxonomy = New(defaultCategories, defaultFallback)

// Default returns the process-wide insurance taxonomy.
func Default() *Taxonomy { return defaultTaxonomy }
