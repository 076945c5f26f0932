package export

import (
	"github.com/termalign/termalign-server/internal/domain"
)

// MappingRecords flattens the cross-department mappings, one row per mapping.
func MappingRecords(mappings []domain.MetricMapping) []Record {
	records := make([]Record, len(mappings))
	for i, m := range mappings {
		records[i] = Record{
			{"Sales KPI", m.Sales.Term},
			{"Sales Definition", m.Sales.Definition},
			{"Marketing KPI", m.Marketing.Term},
			{"Marketing Definition", m.Marketing.Definition},
			{"Product KPI", m.Product.Term},
			{"Product Definition", m.Product.Definition},
			{"Data KPI", m.Data.Term},
			{"Data Definition", m.Data.Definition},
			{"Alignment Status", string(m.AlignmentStatus)},
		}
	}
	return records
}

// MetricRecords flattens conflicting metrics. Teams and definitions stay
// structured and land in the file as JSON.
func MetricRecords(metrics []domain.ConflictingMetric) []Record {
	records := make([]Record, len(metrics))
	for i, m := range metrics {
		records[i] = Record{
			{"ID", m.ID},
			{"Metric", m.Name},
			{"Severity", string(m.Severity)},
			{"Teams", m.TeamNames()},
			{"Definitions", m.Definitions},
			{"Recommendation", m.Recommendation},
		}
	}
	return records
}
