package differ

// SubType constants for rule matching
const (
	subTypeRequired         = "required"
	subTypeOptional         = "optional"
	subTypeMediaType        = "media_type"
	subTypeDeprecated       = "deprecated"
	subTypeKind             = "kind"
	subTypeType             = "type"
	subTypeFormat           = "format"
	subTypeNullable         = "nullable"
	subTypeEnum             = "enum"
	subTypeEnumConstraint   = "enum_constraint"
	subTypeProperty         = "property"
	subTypeAdditional       = "additional_properties"
	subTypeCompositionKind  = "composition_kind"
	subTypeMember           = "member"
	subTypeCycle            = "cycle"
	subTypeUnknown          = "unknown"
	subTypeRequiredProperty = "required_property"
)

// Rule configures how a specific change type is treated.
type Rule struct {
	// Severity overrides the default severity for this change type.
	// If nil, the default severity is used.
	Severity *Severity

	// Ignore completely ignores this change type (not included in results).
	Ignore bool
}

// Apply applies the rule to the given default severity.
// Returns the (possibly overridden) severity and whether to ignore the change.
func (r *Rule) Apply(defaultSeverity Severity) (Severity, bool) {
	if r == nil {
		return defaultSeverity, false
	}
	if r.Ignore {
		return 0, true
	}
	if r.Severity != nil {
		return *r.Severity, false
	}
	return defaultSeverity, false
}

// RulesConfig configures which changes are considered breaking and their
// severity levels. Use this to tune classification to your organization's
// compatibility policy without touching the traversal algorithm.
//
// Example:
//
//	rules := &differ.RulesConfig{
//	    Schema: &differ.SchemaRules{
//	        EnumValueAdded: &differ.Rule{Severity: differ.SeverityPtr(differ.SeverityNonBreaking)},
//	        PropertyAdded:  &differ.Rule{Ignore: true},
//	    },
//	}
//	d := differ.New()
//	d.Rules = rules
type RulesConfig struct {
	// Operation configures rules for operation-level changes
	Operation *OperationRules

	// Parameter configures rules for parameter changes
	Parameter *ParameterRules

	// RequestBody configures rules for request body changes
	RequestBody *RequestBodyRules

	// Response configures rules for response changes
	Response *ResponseRules

	// Schema configures rules for schema changes
	Schema *SchemaRules
}

// OperationRules configures rules for operation-level changes.
type OperationRules struct {
	// Removed configures the rule for when an operation is removed.
	// Default: SeverityBreaking
	Removed *Rule

	// Added configures the rule for when an operation is added.
	// Default: SeverityNonBreaking
	Added *Rule

	// DeprecatedModified configures the rule for deprecated flag changes.
	// Default: SeverityInformational
	DeprecatedModified *Rule
}

// ParameterRules configures rules for parameter changes.
type ParameterRules struct {
	// Added configures the rule for when a parameter is added.
	// Default: SeverityBreaking (required) / SeverityNonBreaking (optional)
	Added *Rule

	// Removed configures the rule for when a parameter is removed.
	// Default: SeverityNonBreaking
	Removed *Rule

	// RequiredChanged configures the rule for required flag changes.
	// Default: SeverityBreaking (false to true) / SeverityNonBreaking (true to false)
	RequiredChanged *Rule

	// DeprecatedModified configures the rule for deprecated flag changes.
	// Default: SeverityInformational
	DeprecatedModified *Rule
}

// RequestBodyRules configures rules for request body changes.
type RequestBodyRules struct {
	// Added configures the rule for when a request body is added.
	// Default: SeverityBreaking (required) / SeverityNonBreaking (optional)
	Added *Rule

	// Removed configures the rule for when a request body is removed.
	// Default: SeverityBreaking
	Removed *Rule

	// RequiredChanged configures the rule for required flag changes.
	// Default: SeverityBreaking (false to true) / SeverityNonBreaking (true to false)
	RequiredChanged *Rule

	// MediaTypeAdded configures the rule for when a media type is added.
	// Default: SeverityNonBreaking
	MediaTypeAdded *Rule

	// MediaTypeRemoved configures the rule for when a media type is removed.
	// Default: SeverityBreaking
	MediaTypeRemoved *Rule
}

// ResponseRules configures rules for response changes.
type ResponseRules struct {
	// Added configures the rule for when a response status code is added.
	// Default: SeverityNonBreaking
	Added *Rule

	// Removed configures the rule for when a response status code is removed.
	// Default: SeverityBreaking
	Removed *Rule

	// MediaTypeAdded configures the rule for when a media type is added.
	// Default: SeverityNonBreaking
	MediaTypeAdded *Rule

	// MediaTypeRemoved configures the rule for when a media type is removed.
	// Default: SeverityBreaking
	MediaTypeRemoved *Rule
}

// SchemaRules configures rules for schema changes. Defaults for most
// schema rules are position-sensitive; the ones below list request
// position first.
type SchemaRules struct {
	// KindChanged configures the rule for node kind changes (e.g. object
	// to array).
	// Default: SeverityBreaking
	KindChanged *Rule

	// TypeChanged configures the rule for primitive type changes.
	// Default: SeverityBreaking
	TypeChanged *Rule

	// FormatChanged configures the rule for format changes.
	// Default: SeverityBreaking / SeverityNonBreaking when a format is
	// added in response position
	FormatChanged *Rule

	// NullableChanged configures the rule for nullability changes.
	// Default: widening is SeverityNonBreaking in request position and
	// SeverityBreaking in response position; narrowing is the reverse
	NullableChanged *Rule

	// EnumValueAdded configures the rule for when an enum value is added.
	// Default: SeverityNonBreaking / SeverityBreaking
	EnumValueAdded *Rule

	// EnumValueRemoved configures the rule for when an enum value is removed.
	// Default: SeverityBreaking / SeverityNonBreaking
	EnumValueRemoved *Rule

	// EnumConstraintChanged configures the rule for an enum constraint
	// appearing on or disappearing from a previously matching node.
	// Default: appearing is SeverityBreaking in request position and
	// SeverityNonBreaking in response position; disappearing is the reverse
	EnumConstraintChanged *Rule

	// PropertyAdded configures the rule for when an object property is added.
	// Default: SeverityBreaking (required) / SeverityNonBreaking (optional)
	PropertyAdded *Rule

	// PropertyRemoved configures the rule for when an object property is removed.
	// Default: SeverityBreaking; removing an optional property in request
	// position is SeverityNonBreaking
	PropertyRemoved *Rule

	// RequiredChanged configures the rule for a property's required flag
	// flipping.
	// Default: false to true is SeverityBreaking in request position and
	// SeverityNonBreaking in response position; true to false is the reverse
	RequiredChanged *Rule

	// AdditionalPropertiesChanged configures the rule for
	// additionalProperties policy changes.
	// Default: narrowing is SeverityBreaking, widening SeverityNonBreaking
	AdditionalPropertiesChanged *Rule

	// CompositionKindChanged configures the rule for composition kind
	// changes (e.g. oneOf to allOf).
	// Default: SeverityBreaking
	CompositionKindChanged *Rule

	// MemberAdded configures the rule for when a composition member is added.
	// Default: SeverityBreaking / SeverityNonBreaking
	MemberAdded *Rule

	// MemberRemoved configures the rule for when a composition member is removed.
	// Default: SeverityBreaking / SeverityNonBreaking
	MemberRemoved *Rule

	// CycleTargetChanged configures the rule for a cyclic reference
	// pointing at a different type name.
	// Default: SeverityBreaking
	CycleTargetChanged *Rule

	// UnknownShape configures the rule for changes involving a node whose
	// shape could not be determined.
	// Default: SeverityInformational
	UnknownShape *Rule
}

// SeverityPtr is a helper function to create a pointer to a Severity value.
// This is useful when configuring Rule.Severity.
func SeverityPtr(s Severity) *Severity {
	return &s
}

// RuleKey identifies a specific change type for rule lookup.
type RuleKey struct {
	Category   ChangeCategory
	ChangeType ChangeType
	SubType    string
}

// getRule looks up the rule for a specific change type.
// Returns nil if no rule is configured (use default behavior).
func (c *RulesConfig) getRule(key RuleKey) *Rule {
	if c == nil {
		return nil
	}
	switch key.Category {
	case CategoryOperation:
		return c.getOperationRule(key)
	case CategoryParameter:
		return c.getParameterRule(key)
	case CategoryRequestBody:
		return c.getRequestBodyRule(key)
	case CategoryResponse:
		return c.getResponseRule(key)
	case CategorySchema:
		return c.getSchemaRule(key)
	}
	return nil
}

func (c *RulesConfig) getOperationRule(key RuleKey) *Rule {
	if c.Operation == nil {
		return nil
	}
	switch key.ChangeType {
	case ChangeTypeRemoved:
		return c.Operation.Removed
	case ChangeTypeAdded:
		return c.Operation.Added
	case ChangeTypeModified:
		if key.SubType == subTypeDeprecated {
			return c.Operation.DeprecatedModified
		}
	}
	return nil
}

func (c *RulesConfig) getParameterRule(key RuleKey) *Rule {
	if c.Parameter == nil {
		return nil
	}
	switch key.ChangeType {
	case ChangeTypeRemoved:
		return c.Parameter.Removed
	case ChangeTypeAdded:
		return c.Parameter.Added
	case ChangeTypeModified:
		switch key.SubType {
		case subTypeRequired:
			return c.Parameter.RequiredChanged
		case subTypeDeprecated:
			return c.Parameter.DeprecatedModified
		}
	}
	return nil
}

func (c *RulesConfig) getRequestBodyRule(key RuleKey) *Rule {
	if c.RequestBody == nil {
		return nil
	}
	switch key.ChangeType {
	case ChangeTypeRemoved:
		if key.SubType == subTypeMediaType {
			return c.RequestBody.MediaTypeRemoved
		}
		return c.RequestBody.Removed
	case ChangeTypeAdded:
		if key.SubType == subTypeMediaType {
			return c.RequestBody.MediaTypeAdded
		}
		return c.RequestBody.Added
	case ChangeTypeModified:
		if key.SubType == subTypeRequired {
			return c.RequestBody.RequiredChanged
		}
	}
	return nil
}

func (c *RulesConfig) getResponseRule(key RuleKey) *Rule {
	if c.Response == nil {
		return nil
	}
	switch key.ChangeType {
	case ChangeTypeRemoved:
		if key.SubType == subTypeMediaType {
			return c.Response.MediaTypeRemoved
		}
		return c.Response.Removed
	case ChangeTypeAdded:
		if key.SubType == subTypeMediaType {
			return c.Response.MediaTypeAdded
		}
		return c.Response.Added
	}
	return nil
}

func (c *RulesConfig) getSchemaRule(key RuleKey) *Rule {
	if c.Schema == nil {
		return nil
	}
	switch key.ChangeType {
	case ChangeTypeAdded:
		switch key.SubType {
		case subTypeEnum:
			return c.Schema.EnumValueAdded
		case subTypeProperty:
			return c.Schema.PropertyAdded
		case subTypeMember:
			return c.Schema.MemberAdded
		}
	case ChangeTypeRemoved:
		switch key.SubType {
		case subTypeEnum:
			return c.Schema.EnumValueRemoved
		case subTypeProperty:
			return c.Schema.PropertyRemoved
		case subTypeMember:
			return c.Schema.MemberRemoved
		}
	case ChangeTypeModified:
		switch key.SubType {
		case subTypeKind:
			return c.Schema.KindChanged
		case subTypeType:
			return c.Schema.TypeChanged
		case subTypeFormat:
			return c.Schema.FormatChanged
		case subTypeNullable:
			return c.Schema.NullableChanged
		case subTypeEnumConstraint:
			return c.Schema.EnumConstraintChanged
		case subTypeRequired:
			return c.Schema.RequiredChanged
		case subTypeAdditional:
			return c.Schema.AdditionalPropertiesChanged
		case subTypeCompositionKind:
			return c.Schema.CompositionKindChanged
		case subTypeCycle:
			return c.Schema.CycleTargetChanged
		case subTypeUnknown:
			return c.Schema.UnknownShape
		}
	}
	return nil
}

// DefaultRules returns a RulesConfig with all default behaviors.
// This is equivalent to not setting any rules.
func DefaultRules() *RulesConfig {
	return &RulesConfig{}
}

// StrictRules returns a RulesConfig that treats more changes as breaking.
func StrictRules() *RulesConfig {
	return &RulesConfig{
		Parameter: &ParameterRules{
			Added: &Rule{Severity: SeverityPtr(SeverityBreaking)},
		},
		Response: &ResponseRules{
			MediaTypeAdded: &Rule{Severity: SeverityPtr(SeverityBreaking)},
		},
		Schema: &SchemaRules{
			FormatChanged:  &Rule{Severity: SeverityPtr(SeverityBreaking)},
			EnumValueAdded: &Rule{Severity: SeverityPtr(SeverityBreaking)},
			PropertyAdded:  &Rule{Severity: SeverityPtr(SeverityBreaking)},
			MemberAdded:    &Rule{Severity: SeverityPtr(SeverityBreaking)},
		},
	}
}

// LenientRules returns a RulesConfig that treats fewer changes as breaking.
func LenientRules() *RulesConfig {
	return &RulesConfig{
		Response: &ResponseRules{
			MediaTypeRemoved: &Rule{Severity: SeverityPtr(SeverityNonBreaking)},
		},
		Schema: &SchemaRules{
			EnumValueAdded:   &Rule{Severity: SeverityPtr(SeverityNonBreaking)},
			EnumValueRemoved: &Rule{Severity: SeverityPtr(SeverityNonBreaking)},
			MemberAdded:      &Rule{Severity: SeverityPtr(SeverityNonBreaking)},
			MemberRemoved:    &Rule{Severity: SeverityPtr(SeverityNonBreaking)},
		},
	}
}
