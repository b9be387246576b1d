// Package ability compiles a principal's role into an immutable permission
// set and evaluates fine-grained, condition-qualified queries against it.
package ability

// Actions understood by the engine. ActionManage is a wildcard covering
// every other action on its subject.
const (
	ActionManage     = "manage"
	ActionRead       = "read"
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionDelete     = "delete"
	ActionChangeRole = "changeRole"
)

// Subjects the engine rules over. SubjectAll is a wildcard covering every
// subject.
const (
	SubjectAll       = "all"
	SubjectUser      = "User"
	SubjectProfile   = "Profile"
	SubjectDashboard = "Dashboard"
	SubjectAnalytics = "Analytics"
	SubjectSettings  = "Settings"
)

// Instance carries the fields of a concrete record a conditioned rule is
// checked against.
type Instance map[string]string

// Rule grants or forbids one action on one subject, optionally qualified by
// field conditions that must match the queried instance.
type Rule struct {
	Action     string
	Subject    string
	Conditions map[string]string
	Forbid     bool
}

// Set is the compiled, ordered rule collection for one principal. A Set is
// immutable after construction; a new principal requires a full rebuild.
type Set struct {
	rules []Rule
}

// Rules returns a copy of the compiled rules.
func (s Set) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Can reports whether the set allows the action on the subject, optionally
// against a concrete instance. It is a pure function of its inputs: unknown
// actions or subjects simply yield false, and it never panics.
//
// A grant matches when its action equals the query (or is the manage
// wildcard), its subject equals the query (or is the all wildcard), and its
// conditions hold against the instance. A forbid overrides any grant when
// its subject matches and its action equals the query action, or the query
// action is manage; a narrower forbid therefore poisons a wildcard query,
// while a broader forbid never blocks a narrower granted action.
func (s Set) Can(action, subject string, instance Instance) bool {
	granted := false
	for _, r := range s.rules {
		if r.Forbid {
			continue
		}
		if !subjectMatches(r, subject) {
			continue
		}
		if r.Action != action && r.Action != ActionManage {
			continue
		}
		if !conditionsHold(r, instance) {
			continue
		}
		granted = true
		break
	}
	if !granted {
		return false
	}
	for _, r := range s.rules {
		if !r.Forbid {
			continue
		}
		if !subjectMatches(r, subject) {
			continue
		}
		if r.Action != action && action != ActionManage {
			continue
		}
		if !conditionsHold(r, instance) {
			continue
		}
		return false
	}
	return true
}

func subjectMatches(r Rule, subject string) bool {
	return r.Subject == subject || r.Subject == SubjectAll
}

// conditionsHold reports whether every condition field equals the matching
// instance field. A conditioned rule never matches a missing instance.
func conditionsHold(r Rule, instance Instance) bool {
	if len(r.Conditions) == 0 {
		return true
	}
	if instance == nil {
		return false
	}
	for field, want := range r.Conditions {
		if instance[field] != want {
			return false
		}
	}
	return true
}
