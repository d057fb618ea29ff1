package insight

// Row is one result row: column name to JSON-primitive value. The executor
// guarantees values are only string, number, bool or nil.
type Row map[string]any

// TaskSpec is one atomic analytical intent produced by the task generator.
// Field names are part of the external JSON contract.
type TaskSpec struct {
	TaskName        string `json:"task_name"`
	TaskDescription string `json:"task_description"`
	SQLQuery        string `json:"sql_query"`
}

// TaskResult is the outcome of executing one TaskSpec. Rows is never nil:
// a failed task carries a single synthetic row with "error" and
// "query_received" keys, so consumers never branch on a status field.
type TaskResult struct {
	TaskName        string `json:"task_name"`
	TaskDescription string `json:"task_description"`
	SQLQuery        string `json:"sql_query"`
	Rows            []Row  `json:"rows"`
}

// Envelope is the unified result of one pipeline run: the sole data
// contract between execution and both the narrator and any rendering
// layer. Task order matches the order of the originating specs.
type Envelope struct {
	Tasks []TaskResult `json:"tasks"`
}

// Response pairs the narrated answer with the envelope it was derived
// from. The two fields are always present together.
type Response struct {
	Answer       string   `json:"answer"`
	ResponseJSON Envelope `json:"response_json"`
}
