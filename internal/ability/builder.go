package ability

import "github.com/compass-console/compass-console/internal/shared"

// BuildFor compiles the rule set for a principal. A nil principal yields the
// anonymous set. BuildFor never fails; an unknown role degrades to the
// anonymous rules.
func BuildFor(p *shared.Principal) Set {
	rules := []Rule{
		{Action: ActionRead, Subject: SubjectDashboard},
	}
	if p == nil {
		return Set{rules: rules}
	}

	self := map[string]string{"id": p.ID}

	switch p.Role {
	case shared.RoleAdmin:
		rules = append(rules, Rule{Action: ActionManage, Subject: SubjectAll})

	case shared.RoleManager:
		rules = append(rules,
			Rule{Action: ActionRead, Subject: SubjectUser},
			Rule{Action: ActionCreate, Subject: SubjectUser},
			Rule{Action: ActionUpdate, Subject: SubjectUser},
			Rule{Action: ActionChangeRole, Subject: SubjectUser, Forbid: true},
			Rule{Action: ActionDelete, Subject: SubjectUser, Forbid: true},
			Rule{Action: ActionRead, Subject: SubjectAnalytics},
			Rule{Action: ActionManage, Subject: SubjectDashboard},
			Rule{Action: ActionManage, Subject: SubjectSettings},
			Rule{Action: ActionManage, Subject: SubjectProfile, Conditions: self},
		)

	case shared.RoleUser:
		rules = append(rules,
			Rule{Action: ActionRead, Subject: SubjectProfile, Conditions: self},
			Rule{Action: ActionUpdate, Subject: SubjectProfile, Conditions: self},
			// Self-profile access is universal across roles.
			Rule{Action: ActionManage, Subject: SubjectProfile, Conditions: self},
			Rule{Action: ActionManage, Subject: SubjectUser, Forbid: true},
			Rule{Action: ActionManage, Subject: SubjectDashboard, Forbid: true},
			Rule{Action: ActionManage, Subject: SubjectSettings, Conditions: map[string]string{"userId": p.ID}},
		)
	}

	return Set{rules: rules}
}
