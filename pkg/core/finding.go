package core

// =============================================================================
// Rule codes
// =============================================================================

// RuleCode identifies the check that produced a finding.
type RuleCode string

// Rule codes, grouped by normal form.
const (
	RuleNF1JSONRelation   RuleCode = "NF1_JSON_RELATION_SUSPECTED"
	RuleNF1ListInString   RuleCode = "NF1_LIST_IN_STRING_SUSPECTED"
	RuleNF1RepeatingGroup RuleCode = "NF1_REPEATING_GROUP_SUSPECTED"
	RuleNF2PartialDep     RuleCode = "NF2_PARTIAL_DEPENDENCY_SUSPECTED"
	RuleNF2JoinTableAttr  RuleCode = "NF2_JOIN_TABLE_DUPLICATED_ATTR_SUSPECTED"
	RuleNF3Violation      RuleCode = "NF3_VIOLATION"
	RuleBCNFViolation     RuleCode = "BCNF_VIOLATION"
	RuleInvUnknownModel   RuleCode = "INVARIANT_UNKNOWN_MODEL"
	RuleInvUnknownField   RuleCode = "INVARIANT_UNKNOWN_FIELD"
	RuleInvNotEnforced    RuleCode = "INVARIANT_DETERMINANT_NOT_ENFORCED"
	RuleFKMissingIndex    RuleCode = "FK_MISSING_INDEX"
	RuleSoftDeleteUnique  RuleCode = "SOFTDELETE_MISSING_IN_UNIQUE"
	RuleSoftDeleteAtNoBy  RuleCode = "SOFTDELETE_AT_WITHOUT_BY"
	RuleSoftDeleteByNoAt  RuleCode = "SOFTDELETE_BY_WITHOUT_AT"
)

// RuleCodes returns every rule code in declaration order.
func RuleCodes() []RuleCode {
	return []RuleCode{
		RuleNF1JSONRelation, RuleNF1ListInString, RuleNF1RepeatingGroup,
		RuleNF2PartialDep, RuleNF2JoinTableAttr,
		RuleNF3Violation, RuleBCNFViolation,
		RuleInvUnknownModel, RuleInvUnknownField, RuleInvNotEnforced,
		RuleFKMissingIndex, RuleSoftDeleteUnique, RuleSoftDeleteAtNoBy, RuleSoftDeleteByNoAt,
	}
}

// IsKnown reports whether c is a defined rule code.
func (c RuleCode) IsKnown() bool {
	for _, known := range RuleCodes() {
		if c == known {
			return true
		}
	}
	return false
}

// =============================================================================
// Findings
// =============================================================================

// Finding is one issue reported by an audit rule.
type Finding struct {
	Rule       RuleCode   `json:"rule"`
	Severity   Severity   `json:"severity"`
	NormalForm NormalForm `json:"normalForm"`
	Model      string     `json:"model"`
	Field      *string    `json:"field"`
	Message    string     `json:"message"`
	Fix        *string    `json:"fix"`
}

// FieldName returns the finding's field, or "" when it applies to the whole model.
func (f Finding) FieldName() string {
	if f.Field == nil {
		return ""
	}
	return *f.Field
}

// Ptr returns a pointer to s, for optional finding fields.
func Ptr(s string) *string {
	return &s
}

// =============================================================================
// Audit result
// =============================================================================

// AuditResult is the complete output of one audit.
type AuditResult struct {
	Contract Contract      `json:"contract"`
	Findings []Finding     `json:"findings"`
	Metadata AuditMetadata `json:"metadata"`
}

// AuditMetadata describes the audit run.
type AuditMetadata struct {
	SchemaPath   string  `json:"schemaPath"`
	Timestamp    *string `json:"timestamp"`
	ModelCount   int     `json:"modelCount"`
	FindingCount int     `json:"findingCount"`
}

// CountBySeverity returns the number of findings at each severity.
func (r *AuditResult) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int, 2)
	for _, f := range r.Findings {
		counts[f.Severity]++
	}
	return counts
}

// HasFindingsAtLeast reports whether any finding is at or above threshold.
func (r *AuditResult) HasFindingsAtLeast(threshold Severity) bool {
	for _, f := range r.Findings {
		if f.Severity.AtLeast(threshold) {
			return true
		}
	}
	return false
}
