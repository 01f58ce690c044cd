package types

// Status is the label printed in front of a user-facing status line
type Status string

const (
	StatusCreate    Status = "create"
	StatusExist     Status = "exist"
	StatusIdentical Status = "identical"
	StatusConflict  Status = "conflict"
	StatusForce     Status = "force"
	StatusSkip      Status = "skip"
	StatusTrack     Status = "track"
	StatusMove      Status = "move"
	StatusGit       Status = "git"
	StatusClone     Status = "clone"
	StatusEval      Status = "eval"
	StatusEvalSkip  Status = "eval skip"
	StatusCastle    Status = "castle"
	StatusPretend   Status = "pretend"
	StatusError     Status = "error"
)

// Reporter prints status lines, the way the CLI narrates what it does
type Reporter interface {
	Say(status Status, message string)
}
