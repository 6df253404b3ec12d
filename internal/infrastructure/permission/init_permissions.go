package permission

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

//go:embed policies.yaml
var defaultPolicies []byte

const (
	GroupMember       = "member"
	GroupBillingAdmin = "billing_admin"
	GroupSuperAdmin   = "super_admin"
)

// AllRoles lists every raw role that is linked to policy groups.
var AllRoles = []authorization.UserRole{
	authorization.RoleSuperAdmin,
	authorization.RoleTenantAdmin,
	authorization.RoleITAdmin,
	authorization.RoleSalesAdmin,
	authorization.RoleRetailAdmin,
	authorization.RoleMaintenanceAdmin,
	authorization.RoleProjectsAdmin,
	authorization.RoleEndUser,
	authorization.RoleContractor,
}

// Rule grants one route template and method to a group.
type Rule struct {
	Group  string
	Method string
	Path   string
}

// PolicySet is the parsed policy document, keyed by group.
type PolicySet map[string][]string

// LoadPolicySet reads the policy document at path, or the built-in one when
// path is empty.
func LoadPolicySet(path string) (PolicySet, error) {
	data := defaultPolicies
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read policy file: %w", err)
		}
		data = raw
	}

	var set PolicySet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}
	return set, nil
}

// Rules flattens the set in a stable order.
func (s PolicySet) Rules() ([]Rule, error) {
	groups := make([]string, 0, len(s))
	for g := range s {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	var rules []Rule
	for _, g := range groups {
		for _, entry := range s[g] {
			method, path, ok := strings.Cut(strings.TrimSpace(entry), " ")
			path = strings.TrimSpace(path)
			if !ok || path == "" {
				return nil, fmt.Errorf("invalid policy entry %q in group %s", entry, g)
			}
			rules = append(rules, Rule{Group: g, Method: strings.ToUpper(method), Path: path})
		}
	}
	return rules, nil
}

// GroupsFor returns the policy groups a raw role belongs to.
func GroupsFor(role authorization.UserRole) []string {
	groups := []string{GroupMember, string(role.Class().Kind)}
	if role.IsBillingAdmin() {
		groups = append(groups, GroupBillingAdmin)
	}
	if role == authorization.RoleSuperAdmin {
		groups = append(groups, GroupSuperAdmin)
	}
	return groups
}

// InitPolicies links every raw role to its groups and adds the rules of set
// that are not stored yet. It is safe to run on every start.
func InitPolicies(e *Enforcer, set PolicySet, log logger.Interface) error {
	rules, err := set.Rules()
	if err != nil {
		return err
	}

	links := 0
	for _, role := range AllRoles {
		for _, group := range GroupsFor(role) {
			added, err := e.LinkRole(string(role), group)
			if err != nil {
				return fmt.Errorf("failed to link role %s to %s: %w", role, group, err)
			}
			if added {
				links++
			}
		}
	}

	policies := 0
	for _, rule := range rules {
		added, err := e.AddPolicy(rule.Group, rule.Path, rule.Method)
		if err != nil {
			log.Errorw("failed to add route permission policy",
				"error", err,
				"group", rule.Group,
				"path", rule.Path,
				"method", rule.Method)
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w", rule.Group, rule.Path, rule.Method, err)
		}
		if added {
			policies++
		}
	}

	log.Infow("route permissions initialized", "new_links", links, "new_policies", policies, "rules", len(rules))
	return nil
}
