package release

import (
	"github.com/relstage/relstage/pkg/vcs"
	"github.com/relstage/relstage/pkg/version"
)

// Step is a stage in the release state machine.
type Step uint8

const (
	// StepValidating checks the repository and the version declaration
	StepValidating Step = iota

	// StepResolving computes the next version and the tag to create
	StepResolving

	// StepCheckingHistory verifies the pre-release commits are safe to drop
	StepCheckingHistory

	// StepRewriting drops the pre-release commits from history
	StepRewriting

	// StepWriting updates the version declaration file
	StepWriting

	// StepCommitting commits the declaration change
	StepCommitting

	// StepCleaning removes superseded pre-release tags
	StepCleaning

	// StepTagging creates the release tag
	StepTagging

	// StepPushing updates the remote
	StepPushing

	// StepDone is the terminal success state
	StepDone

	// StepRollingBack restores stashed work after a failed rewrite
	StepRollingBack
)

var stepNames = map[Step]string{
	StepValidating:      "validating",
	StepResolving:       "resolving",
	StepCheckingHistory: "checking-history",
	StepRewriting:       "rewriting",
	StepWriting:         "writing",
	StepCommitting:      "committing",
	StepCleaning:        "cleaning",
	StepTagging:         "tagging",
	StepPushing:         "pushing",
	StepDone:            "done",
	StepRollingBack:     "rolling-back",
}

func (s Step) String() string {
	return stepNames[s]
}

// MarshalText renders the step name
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MarshalYAML renders the step name
func (s Step) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// Result describes what a release operation did, or how far it got.
type Result struct {
	Previous       version.Version `json:"previous" yaml:"previous"`
	Next           version.Version `json:"next" yaml:"next"`
	Tag            string          `json:"tag" yaml:"tag"`
	Branch         string          `json:"branch,omitempty" yaml:"branch,omitempty"`
	Manifest       string          `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	RemovedTags    []string        `json:"removedTags,omitempty" yaml:"removedTags,omitempty"`
	DroppedCommits []vcs.Commit    `json:"droppedCommits,omitempty" yaml:"droppedCommits,omitempty"`
	Pushed         bool            `json:"pushed" yaml:"pushed"`
	LastStep       Step            `json:"lastStep" yaml:"lastStep"`
	_              struct{}
}
