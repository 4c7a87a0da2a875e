package logging

// Field names shared by every component so projection logs can be filtered
// on the same keys.
const (
	FieldFile        = "file_path"
	FieldEntryID     = "entry_id"
	FieldFrequency   = "frequency"
	FieldPeriod      = "period"
	FieldPeriodType  = "period_type"
	FieldOperation   = "operation"
	FieldCount       = "count"
	FieldSkipped     = "skipped"
	FieldTodayIndex  = "today_index"
	FieldAmount      = "amount"
	FieldRangeStart  = "range_start"
	FieldRangeEnd    = "range_end"
	FieldFormat      = "format"
	FieldOutputFile  = "output_file"
	FieldInputDir    = "input_dir"
	FieldTransaction = "transaction_id"
)
