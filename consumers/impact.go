package consumers

import (
	"fmt"
	"io"
	"sort"

	"github.com/specgate/specgate/apispec"
	"github.com/specgate/specgate/differ"
	"github.com/specgate/specgate/internal/cliutil"
)

// EndpointImpact collects the changes to one operation a consumer depends on.
type EndpointImpact struct {
	Operation apispec.OperationKey `json:"operation" yaml:"operation"`
	Changes   []differ.Change      `json:"changes" yaml:"changes"`
	Breaking  bool                 `json:"breaking" yaml:"breaking"`
}

// Impact is the per-consumer result of analyzing a report against the
// registry.
type Impact struct {
	Consumer    Consumer               `json:"consumer" yaml:"consumer"`
	Breaking    []EndpointImpact       `json:"breaking,omitempty" yaml:"breaking,omitempty"`
	NonBreaking []EndpointImpact       `json:"nonBreaking,omitempty" yaml:"nonBreaking,omitempty"`
	Added       []apispec.OperationKey `json:"added,omitempty" yaml:"added,omitempty"`
	Removed     []apispec.OperationKey `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// HasBreaking reports whether the consumer is exposed to a breaking change,
// either through a modified endpoint or through a removed one.
func (i Impact) HasBreaking() bool {
	return len(i.Breaking) > 0 || len(i.Removed) > 0
}

// Affected reports whether anything in the report touched this consumer.
func (i Impact) Affected() bool {
	return len(i.Breaking) > 0 || len(i.NonBreaking) > 0 ||
		len(i.Added) > 0 || len(i.Removed) > 0
}

// Analyze partitions the report's changes per registered consumer. The
// result lists consumers in registry order (sorted by name); each
// consumer's endpoint buckets follow the report's deterministic change
// order.
func Analyze(report *differ.Report, registry *Registry) []Impact {
	grouped := groupByOperation(report.Changes)

	impacts := make([]Impact, 0, len(registry.Consumers))
	for _, consumer := range registry.Consumers {
		impact := Impact{Consumer: consumer}
		for _, group := range grouped {
			key := group.key
			if !consumer.DependsOn(key.Path, key.Method) {
				continue
			}
			switch {
			case group.added:
				impact.Added = append(impact.Added, key)
			case group.removed:
				impact.Removed = append(impact.Removed, key)
			default:
				ep := EndpointImpact{
					Operation: key,
					Changes:   group.changes,
					Breaking:  group.breaking,
				}
				if ep.Breaking {
					impact.Breaking = append(impact.Breaking, ep)
				} else {
					impact.NonBreaking = append(impact.NonBreaking, ep)
				}
			}
		}
		impacts = append(impacts, impact)
	}
	return impacts
}

type operationGroup struct {
	key      apispec.OperationKey
	changes  []differ.Change
	added    bool
	removed  bool
	breaking bool
}

// groupByOperation buckets the report's changes per operation, preserving
// the report's sorted order across groups and within each group.
func groupByOperation(changes []differ.Change) []*operationGroup {
	byKey := make(map[apispec.OperationKey]*operationGroup)
	var order []apispec.OperationKey
	for _, ch := range changes {
		group, ok := byKey[ch.Operation]
		if !ok {
			group = &operationGroup{key: ch.Operation}
			byKey[ch.Operation] = group
			order = append(order, ch.Operation)
		}
		group.changes = append(group.changes, ch)
		if ch.Category == differ.CategoryOperation {
			switch ch.Type {
			case differ.ChangeTypeAdded:
				group.added = true
			case differ.ChangeTypeRemoved:
				group.removed = true
			}
		}
		if ch.Severity == differ.SeverityBreaking {
			group.breaking = true
		}
	}
	groups := make([]*operationGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, byKey[key])
	}
	return groups
}

// RenderMarkdown appends an affected-consumers section to a markdown
// report. Consumers the report does not touch are listed as unaffected so
// the section always accounts for the whole registry.
func RenderMarkdown(w io.Writer, impacts []Impact) {
	cliutil.Writef(w, "\n## Affected Consumers\n\n")

	var unaffected []string
	for _, impact := range impacts {
		if !impact.Affected() {
			unaffected = append(unaffected, impact.Consumer.Name)
			continue
		}
		marker := "✅"
		if impact.HasBreaking() {
			marker = "❌"
		}
		cliutil.Writef(w, "### %s %s\n\n", marker, impact.Consumer.Name)
		cliutil.Writef(w, "%s\n\n", impact.Consumer.Description)

		for _, key := range impact.Removed {
			cliutil.Writef(w, "- ❌ `%s` removed\n", key.String())
		}
		for _, ep := range impact.Breaking {
			cliutil.Writef(w, "- ❌ `%s` has %s\n", ep.Operation.String(), countChanges(len(ep.Changes)))
		}
		for _, ep := range impact.NonBreaking {
			cliutil.Writef(w, "- ⚠️ `%s` has %s\n", ep.Operation.String(), countChanges(len(ep.Changes)))
		}
		for _, key := range impact.Added {
			cliutil.Writef(w, "- ℹ️ `%s` added\n", key.String())
		}
		cliutil.Writef(w, "\n")
	}

	if len(unaffected) > 0 {
		sort.Strings(unaffected)
		cliutil.Writef(w, "### Unaffected\n\n")
		for _, name := range unaffected {
			cliutil.Writef(w, "- %s\n", name)
		}
	}
}

func countChanges(n int) string {
	if n == 1 {
		return "1 change"
	}
	return fmt.Sprintf("%d changes", n)
}
