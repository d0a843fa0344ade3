package audit

import (
	"fmt"
	"strconv"
	"strings"

	n8n "github.com/lex00/n8n-aws-go"
)

const (
	typeDBInstance       = "AWS::RDS::DBInstance"
	typeParameterGroup   = "AWS::RDS::DBParameterGroup"
	typeSecurityGroup    = "AWS::EC2::SecurityGroup"
	typeIngress          = "AWS::EC2::SecurityGroupIngress"
	typeListener         = "AWS::ElasticLoadBalancingV2::Listener"
	typeTaskDefinition   = "AWS::ECS::TaskDefinition"
	minBackupRetention   = 7
	anyIPv4, anyIPv6     = "0.0.0.0/0", "::/0"
	permanentRedirection = "HTTP_301"
)

var rules = []Rule{
	{
		ID:           "N8N001",
		Category:     CategorySecurity,
		Title:        "Database must not be publicly accessible",
		Description:  "A public database instance gets a public endpoint",
		ResourceType: typeDBInstance,
		Check: func(name string, def n8n.ResourceDef, _ *n8n.Template) []Issue {
			if truthy(def.Properties["PubliclyAccessible"]) {
				return []Issue{issue("N8N001", name, SeverityError,
					"database instance "+name+" is publicly accessible",
					"Set PubliclyAccessible to false and reach the database from inside the VPC.")}
			}
			return nil
		},
	},
	{
		ID:          "N8N002",
		Category:    CategorySecurity,
		Title:       "Database ingress must not come from a wildcard CIDR",
		Description: "The database port should only be reachable from the VPC",
		Check: func(name string, def n8n.ResourceDef, t *n8n.Template) []Issue {
			var issues []Issue
			for _, rule := range ingressRules(name, def) {
				if !isDatabaseGroup(t, rule.group) || !isWildcard(rule.cidr) {
					continue
				}
				issues = append(issues, issue("N8N002", name, SeverityError,
					fmt.Sprintf("%s allows database ingress from %v", name, rule.cidr),
					"Use the VPC CIDR block (Fn::GetAtt VPC.CidrBlock) as the ingress source."))
			}
			return issues
		},
	},
	{
		ID:           "N8N003",
		Category:     CategorySecurity,
		Title:        "HTTP listeners must permanently redirect to HTTPS",
		Description:  "Plain HTTP must never forward to the application",
		ResourceType: typeListener,
		Check: func(name string, def n8n.ResourceDef, _ *n8n.Template) []Issue {
			if def.Properties["Protocol"] != "HTTP" {
				return nil
			}
			actions, _ := def.Properties["DefaultActions"].([]any)
			if len(actions) == 1 && isPermanentHTTPSRedirect(actions[0]) {
				return nil
			}
			return []Issue{issue("N8N003", name, SeverityError,
				"HTTP listener "+name+" does not only redirect to HTTPS",
				"Use a single redirect action to HTTPS:443 with status HTTP_301.")}
		},
	},
	{
		ID:          "N8N004",
		Category:    CategorySecurity,
		Title:       "Only web ports should be open to the internet",
		Description: "Ingress from anywhere bypasses the load balancer on other ports",
		Check: func(name string, def n8n.ResourceDef, _ *n8n.Template) []Issue {
			var issues []Issue
			for _, rule := range ingressRules(name, def) {
				if !isWildcard(rule.cidr) || isWebPort(rule.from, rule.to) {
					continue
				}
				issues = append(issues, issue("N8N004", name, SeverityWarning,
					fmt.Sprintf("%s allows ingress from %v on port %s", name, rule.cidr, portRange(rule.from, rule.to)),
					"Restrict the source to the load balancer security group."))
			}
			return issues
		},
	},
	{
		ID:          "N8N005",
		Category:    CategorySecurity,
		Title:       "Database connections should use TLS",
		Description: "rds.force_ssl=0 or DB_POSTGRESDB_SSL=false leaves database traffic unencrypted",
		Check: func(name string, def n8n.ResourceDef, _ *n8n.Template) []Issue {
			switch def.Type {
			case typeParameterGroup:
				params, _ := def.Properties["Parameters"].(map[string]any)
				if v, ok := params["rds.force_ssl"]; ok && fmt.Sprint(v) == "0" {
					return []Issue{issue("N8N005", name, SeverityWarning,
						"parameter group "+name+" disables rds.force_ssl",
						"Set rds.force_ssl to 1 once the client connects with TLS.")}
				}
			case typeTaskDefinition:
				for _, env := range containerEnvironment(def) {
					if env["Name"] == "DB_POSTGRESDB_SSL" && strings.EqualFold(fmt.Sprint(env["Value"]), "false") {
						return []Issue{issue("N8N005", name, SeverityWarning,
							"task definition "+name+" connects to the database without TLS",
							"Set DB_POSTGRESDB_SSL=true.")}
					}
				}
			}
			return nil
		},
	},
	{
		ID:           "N8N006",
		Category:     CategoryReliability,
		Title:        "Database deletion protection",
		Description:  "Without deletion protection a stack delete removes the database",
		ResourceType: typeDBInstance,
		Check: func(name string, def n8n.ResourceDef, _ *n8n.Template) []Issue {
			if truthy(def.Properties["DeletionProtection"]) {
				return nil
			}
			return []Issue{issue("N8N006", name, SeverityInfo,
				"database instance "+name+" has deletion protection disabled",
				"Enable DeletionProtection for production data.")}
		},
	},
	{
		ID:           "N8N007",
		Category:     CategoryReliability,
		Title:        "Database backups should be kept for at least 7 days",
		Description:  "Short retention limits point-in-time recovery",
		ResourceType: typeDBInstance,
		Check: func(name string, def n8n.ResourceDef, _ *n8n.Template) []Issue {
			days, ok := number(def.Properties["BackupRetentionPeriod"])
			if ok && days >= minBackupRetention {
				return nil
			}
			return []Issue{issue("N8N007", name, SeverityWarning,
				fmt.Sprintf("database instance %s keeps backups for fewer than %d days", name, minBackupRetention),
				"Set BackupRetentionPeriod to 7 or more.")}
		},
	},
}

func issue(rule, resource string, severity Severity, message, suggestion string) Issue {
	return Issue{
		Rule:       rule,
		Message:    message,
		Suggestion: suggestion,
		File:       "Resources/" + resource,
		Severity:   severity,
	}
}

// ingress is a normalized ingress rule from either an inline
// SecurityGroupIngress entry or a standalone ingress resource.
type ingress struct {
	group    any
	cidr     any
	from, to any
}

func ingressRules(name string, def n8n.ResourceDef) []ingress {
	switch def.Type {
	case typeSecurityGroup:
		entries, _ := def.Properties["SecurityGroupIngress"].([]any)
		var out []ingress
		for _, e := range entries {
			m, ok := e.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, ingress{
				group: map[string]any{"Fn::GetAtt": []any{name, "GroupId"}},
				cidr:  m["CidrIp"],
				from:  m["FromPort"],
				to:    m["ToPort"],
			})
		}
		return out
	case typeIngress:
		return []ingress{{
			group: def.Properties["GroupId"],
			cidr:  def.Properties["CidrIp"],
			from:  def.Properties["FromPort"],
			to:    def.Properties["ToPort"],
		}}
	}
	return nil
}

// isDatabaseGroup reports whether a GroupId expression points at a security
// group attached to a database instance.
func isDatabaseGroup(t *n8n.Template, group any) bool {
	target := referencedName(group)
	if target == "" {
		return false
	}
	for _, name := range t.ResourcesOfType(typeDBInstance) {
		groups, _ := t.Resources[name].Properties["VPCSecurityGroups"].([]any)
		for _, g := range groups {
			if referencedName(g) == target {
				return true
			}
		}
	}
	return false
}

func referencedName(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	if s, ok := m["Ref"].(string); ok {
		return s
	}
	if att, ok := m["Fn::GetAtt"].([]any); ok && len(att) > 0 {
		s, _ := att[0].(string)
		return s
	}
	return ""
}

func isWildcard(cidr any) bool {
	s, ok := cidr.(string)
	return ok && (s == anyIPv4 || s == anyIPv6)
}

func isWebPort(from, to any) bool {
	f, ok1 := number(from)
	t, ok2 := number(to)
	if !ok1 || !ok2 || f != t {
		return false
	}
	return f == 80 || f == 443
}

func portRange(from, to any) string {
	f, _ := number(from)
	t, _ := number(to)
	if f == t {
		return strconv.Itoa(f)
	}
	return fmt.Sprintf("%d-%d", f, t)
}

func isPermanentHTTPSRedirect(action any) bool {
	m, ok := action.(map[string]any)
	if !ok || m["Type"] != "redirect" {
		return false
	}
	cfg, ok := m["RedirectConfig"].(map[string]any)
	if !ok {
		return false
	}
	port, _ := number(cfg["Port"])
	return cfg["Protocol"] == "HTTPS" && port == 443 && cfg["StatusCode"] == permanentRedirection
}

func containerEnvironment(def n8n.ResourceDef) []map[string]any {
	containers, _ := def.Properties["ContainerDefinitions"].([]any)
	var out []map[string]any
	for _, c := range containers {
		cm, ok := c.(map[string]any)
		if !ok {
			continue
		}
		env, _ := cm["Environment"].([]any)
		for _, e := range env {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

// truthy accepts the bool and string forms CloudFormation allows.
func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	}
	return false
}

// number accepts the numeric and string forms a template may carry.
func number(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}
