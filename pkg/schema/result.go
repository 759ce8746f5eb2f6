// pkg/schema/result.go
package schema

// ErrorKind classifies why a lip-sync job failed.
type ErrorKind string

const (
	ErrorKindValidation        ErrorKind = "validation"
	ErrorKindMissingDependency ErrorKind = "missing_dependency"
	ErrorKindExternalTool      ErrorKind = "external_tool"
	ErrorKindOutputNotFound    ErrorKind = "output_not_found"
	ErrorKindTimeout           ErrorKind = "timeout"
	ErrorKindInternal          ErrorKind = "internal"
)

// VideoInfo carries ffprobe metadata about a produced video file.
type VideoInfo struct {
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Size     int64   `json:"size,omitempty"`
}

// RunLogs captures everything about one MuseTalk invocation that is useful
// for offline diagnosis: the exact command, full output streams, truncated
// tails, and directory listings when the output could not be located.
type RunLogs struct {
	Cmd                  []string   `json:"cmd,omitempty"`
	Cwd                  string     `json:"cwd,omitempty"`
	Stdout               string     `json:"stdout,omitempty"`
	Stderr               string     `json:"stderr,omitempty"`
	StdoutTail           string     `json:"stdout_tail,omitempty"`
	StderrTail           string     `json:"stderr_tail,omitempty"`
	ReturnCode           int        `json:"returncode"`
	ResultDir            string     `json:"result_dir,omitempty"`
	ResultDirFiles       []string   `json:"result_dir_files,omitempty"`
	FallbackResultsRoot  string     `json:"fallback_results_root,omitempty"`
	FallbackResultsFiles []string   `json:"fallback_results_files,omitempty"`
	Phase                string     `json:"phase,omitempty"`
	Exception            string     `json:"exception,omitempty"`
	OutputInfo           *VideoInfo `json:"output_info,omitempty"`
}

// Result is the outcome of one lip-sync job. Output is populated if and only
// if Success is true.
type Result struct {
	Success bool      `json:"success"`
	Output  string    `json:"output,omitempty"`
	Error   string    `json:"error,omitempty"`
	Kind    ErrorKind `json:"kind,omitempty"`
	Logs    *RunLogs  `json:"logs,omitempty"`
}

func Successful(output string, logs *RunLogs) Result {
	return Result{Success: true, Output: output, Logs: logs}
}

func Failure(kind ErrorKind, msg string, logs *RunLogs) Result {
	return Result{Error: msg, Kind: kind, Logs: logs}
}
