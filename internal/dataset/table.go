package dataset

import (
	"hash/fnv"

	"github.com/vaidashi/sales-analytics-pipeline/internal/models"
)

// Table is an in-memory order table split into partitions. A freshly
// loaded table has a single partition; Repartition redistributes rows for
// balanced parallel aggregation.
type Table struct {
	partitions [][]models.OrderRecord
}

// NewTable creates a table holding the given rows in a single partition
func NewTable(rows []models.OrderRecord) *Table {
	return &Table{partitions: [][]models.OrderRecord{rows}}
}

// NumRows returns the total row count across all partitions
func (t *Table) NumRows() int {
	n := 0
	for _, p := range t.partitions {
		n += len(p)
	}
	return n
}

// NumPartitions returns the number of partitions
func (t *Table) NumPartitions() int {
	return len(t.partitions)
}

// Partitions returns the partition slices. Callers must not mutate them.
func (t *Table) Partitions() [][]models.OrderRecord {
	return t.partitions
}

// Rows returns every row of the table in partition order
func (t *Table) Rows() []models.OrderRecord {
	rows := make([]models.OrderRecord, 0, t.NumRows())
	for _, p := range t.partitions {
		rows = append(rows, p...)
	}
	return rows
}

// Repartition redistributes rows across n partitions keyed by order date,
// so later date-grouped aggregations see balanced work. Row content is
// unchanged; only the assignment of rows to partitions moves.
func (t *Table) Repartition(n int) *Table {
	if n <= 0 {
		n = 1
	}

	partitions := make([][]models.OrderRecord, n)
	for _, p := range t.partitions {
		for _, row := range p {
			i := partitionKey(row.OrderDate.Format(models.DateFormat), n)
			partitions[i] = append(partitions[i], row)
		}
	}

	return &Table{partitions: partitions}
}

func partitionKey(key string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}
