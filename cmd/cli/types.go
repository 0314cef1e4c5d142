package main

// Thin mirrors of the API payloads. Only the fields the CLI renders are
// declared; unknown fields pass through untouched in --json mode because the
// raw response is reprinted, not these structs.

type stepPayload struct {
	Action    string `json:"action"`
	URL       string `json:"url,omitempty"`
	Selector  string `json:"selector,omitempty"`
	Value     string `json:"value,omitempty"`
	Condition string `json:"condition,omitempty"`
}

type scenarioPayload struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Steps       []stepPayload `json:"steps"`
}

type validationPayload struct {
	Validated bool   `json:"validated"`
	Reason    string `json:"reason,omitempty"`
	Report    struct {
		Status        string `json:"status"`
		ExecutionTime string `json:"executionTime"`
		Metrics       struct {
			TotalSteps   int `json:"totalSteps"`
			PassedSteps  int `json:"passedSteps"`
			FailedSteps  int `json:"failedSteps"`
			WarningSteps int `json:"warningSteps"`
		} `json:"executionMetrics"`
	} `json:"executionReport"`
}

type generateResponse struct {
	Scenarios  []scenarioPayload `json:"scenarios"`
	Validation validationPayload `json:"mcpValidation"`
	Execution  *executePayload   `json:"playwrightExecution,omitempty"`
	Files      struct {
		Scenarios string `json:"scenarios"`
		Validated string `json:"validated"`
	} `json:"files"`
}

type executePayload struct {
	RunID           string `json:"runId,omitempty"`
	Success         bool   `json:"success"`
	FormattedResult string `json:"formattedResult,omitempty"`
	Error           string `json:"error,omitempty"`
	Report          *struct {
		Files struct {
			ReportDir string `json:"reportDir"`
		} `json:"files"`
	} `json:"executionReport,omitempty"`
}

type resultEntry struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modifiedAt"`
}

type reportEntry struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	CreatedAt     string `json:"createdAt"`
	Scenario      string `json:"scenario,omitempty"`
	Status        string `json:"status,omitempty"`
	ExecutionTime string `json:"executionTime,omitempty"`
	TotalSteps    int    `json:"totalSteps,omitempty"`
}

type runEntry struct {
	ID           string `json:"id"`
	Objective    string `json:"objective"`
	ScenarioName string `json:"scenario_name"`
	Status       string `json:"status"`
	ReportDir    string `json:"report_dir"`
	TotalSteps   int    `json:"total_steps"`
	PassedSteps  int    `json:"passed_steps"`
	FailedSteps  int    `json:"failed_steps"`
	WarningSteps int    `json:"warning_steps"`
	CreatedAt    string `json:"created_at"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
