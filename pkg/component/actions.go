package component

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	strerrors "github.com/go-strand/strand/pkg/errors"
)

var (
	errNoMarkupSource = errors.New("component supplies neither Template nor HTML markup source")
	errNoContainer    = errors.New("no container bound")
	errNoBus          = errors.New("no bus attached")
)

// DefaultSubmitAction is the action name a form without an explicit action
// marker falls back to.
const DefaultSubmitAction = "submit"

// Markup markers, scanned after every render:
//
//	<button data-action="save">        click binding "save"
//	<form data-action="login">         submit binding "login"
//	<form>                             submit binding DefaultSubmitAction
var (
	actionAttrRe = regexp.MustCompile(`\bdata-action="([^"]*)"`)
	formTagRe    = regexp.MustCompile(`(?is)<form\b[^>]*>`)
)

// bindingKind distinguishes click and submit bindings.
type bindingKind int

const (
	bindClick bindingKind = iota
	bindSubmit
)

type binding struct {
	kind   bindingKind
	action string
	fn     ActionFunc
}

// bindingSet is the recorded listener table for one instance. Recording
// every binding lets teardown reverse them precisely.
type bindingSet struct {
	mu      sync.Mutex
	entries map[string]binding
}

func bindingKey(kind bindingKind, action string) string {
	if kind == bindSubmit {
		return "submit:" + action
	}
	return "click:" + action
}

func (s *bindingSet) add(b binding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string]binding)
	}
	s.entries[bindingKey(b.kind, b.action)] = b
}

func (s *bindingSet) get(kind bindingKind, action string) (binding, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.entries[bindingKey(kind, action)]
	return b, ok
}

func (s *bindingSet) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

func (s *bindingSet) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for k := range s.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// bindActions scans rendered markup for declarative action markers and binds
// them to the component's action table. An action identifier with no table
// entry fails the render rather than becoming a silent no-op.
func (b *Base) bindActions(markup string) error {
	var table map[string]ActionFunc
	if p, ok := b.self.(ActionProvider); ok {
		table = p.Actions()
	}

	// Form tags claim their data-action attribute for submit binding; every
	// other occurrence is a click binding.
	formRanges := formTagRe.FindAllStringIndex(markup, -1)
	inForm := func(pos int) bool {
		for _, r := range formRanges {
			if pos >= r[0] && pos < r[1] {
				return true
			}
		}
		return false
	}

	for _, r := range formRanges {
		tag := markup[r[0]:r[1]]
		name := DefaultSubmitAction
		if m := actionAttrRe.FindStringSubmatch(tag); m != nil {
			name = m[1]
			if name == "" {
				return b.fail("component.Render", strerrors.KindConfiguration,
					errors.New("form carries an empty data-action marker"))
			}
		} else if _, ok := table[name]; !ok {
			// A bare form with no default submit handler stays unbound.
			continue
		}
		fn, ok := table[name]
		if !ok {
			return b.unresolvableAction(name)
		}
		b.bindings.add(binding{kind: bindSubmit, action: name, fn: fn})
	}

	for _, m := range actionAttrRe.FindAllStringSubmatchIndex(markup, -1) {
		if inForm(m[0]) {
			continue
		}
		name := markup[m[2]:m[3]]
		if name == "" {
			return b.fail("component.Render", strerrors.KindConfiguration,
				errors.New("element carries an empty data-action marker"))
		}
		fn, ok := table[name]
		if !ok {
			return b.unresolvableAction(name)
		}
		b.bindings.add(binding{kind: bindClick, action: name, fn: fn})
	}

	return nil
}

func (b *Base) unresolvableAction(name string) error {
	return b.fail("component.Render", strerrors.KindConfiguration,
		fmt.Errorf("markup action %q has no entry in the component's action table", name))
}

// Invoke dispatches a bound click action. The host adapter calls this when
// an element carrying the action marker is activated.
//
// A handler error is reported and returned but does not abort the runtime.
func (b *Base) Invoke(action string, data any) error {
	if b.IsDestroyed() {
		return b.destroyedErr("component.Invoke")
	}
	bound, ok := b.bindings.get(bindClick, action)
	if !ok {
		return b.fail("component.Invoke", strerrors.KindNotRegistered,
			fmt.Errorf("no bound action %q", action))
	}
	if err := bound.fn(ActionEvent{Action: action, Data: data}); err != nil {
		b.report("component.Invoke "+action, strerrors.KindHandler, err)
		return err
	}
	return nil
}

// Submit dispatches a bound form submission. An empty action name targets
// the default submit binding.
func (b *Base) Submit(action string, values map[string]string) error {
	if b.IsDestroyed() {
		return b.destroyedErr("component.Submit")
	}
	if action == "" {
		action = DefaultSubmitAction
	}
	bound, ok := b.bindings.get(bindSubmit, action)
	if !ok {
		return b.fail("component.Submit", strerrors.KindNotRegistered,
			fmt.Errorf("no bound submit action %q", action))
	}
	if err := bound.fn(ActionEvent{Action: action, Values: values}); err != nil {
		b.report("component.Submit "+action, strerrors.KindHandler, err)
		return err
	}
	return nil
}

// Bindings returns the recorded binding keys, sorted. Intended for
// introspection and tests.
func (b *Base) Bindings() []string {
	return b.bindings.keys()
}
