// Package oracletest provides a scripted Completer for tests.
package oracletest

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Rule answers prompts containing Marker. Replies are consumed in order;
// the last reply repeats once the list is exhausted.
type Rule struct {
	Marker  string
	Replies []string
	Err     error
}

// ScriptedCompleter matches prompts against rules in order and records every call.
type ScriptedCompleter struct {
	mu     sync.Mutex
	rules  []*Rule
	served map[*Rule]int
	calls  []string
}

func New(rules ...Rule) *ScriptedCompleter {
	s := &ScriptedCompleter{served: map[*Rule]int{}}
	for i := range rules {
		r := rules[i]
		s.rules = append(s.rules, &r)
	}
	return s
}

// On appends a rule and returns the completer for chaining.
func (s *ScriptedCompleter) On(marker string, replies ...string) *ScriptedCompleter {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, &Rule{Marker: marker, Replies: replies})
	return s
}

// Fail makes prompts containing marker return err.
func (s *ScriptedCompleter) Fail(marker string, err error) *ScriptedCompleter {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append([]*Rule{{Marker: marker, Err: err}}, s.rules...)
	return s
}

func (s *ScriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, prompt)
	for _, r := range s.rules {
		if !strings.Contains(prompt, r.Marker) {
			continue
		}
		if r.Err != nil {
			return "", r.Err
		}
		if len(r.Replies) == 0 {
			return "", nil
		}
		i := s.served[r]
		if i >= len(r.Replies) {
			i = len(r.Replies) - 1
		}
		s.served[r]++
		return r.Replies[i], nil
	}
	return "", fmt.Errorf("oracletest: no rule matches prompt %.80q", prompt)
}

// Calls returns the prompts received so far.
func (s *ScriptedCompleter) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// CallsContaining counts prompts that contain marker.
func (s *ScriptedCompleter) CallsContaining(marker string) int {
	n := 0
	for _, c := range s.Calls() {
		if strings.Contains(c, marker) {
			n++
		}
	}
	return n
}
