package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrTaskIDRequired indicates no task id was provided.
var ErrTaskIDRequired = errors.New("task id required")

// ParseTaskID parses the task id from args. The id is the number shown by
// "taskcli tasks" and may be written with a leading '#'. Extra arguments
// are rejected.
func ParseTaskID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, ErrTaskIDRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}

	raw := strings.TrimPrefix(args[0], "#")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id: %s", args[0])
	}
	return id, nil
}
