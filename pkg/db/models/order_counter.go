package models

// OrderCounter allocates the per-month order number sequence. A single row
// per YYYY-MM month key is bumped with an atomic upsert so concurrent order
// creation never hands out the same sequence.
type OrderCounter struct {
	MonthKey string `gorm:"column:month_key;primaryKey"`
	Seq      int    `gorm:"column:seq;not null"`
}
