package git

import (
	"context"
	"os/exec"

	gitshipErrors "github.com/gitship/gitship/internal/errors"
	gitshipExec "github.com/gitship/gitship/internal/exec"
)

// IsRepository checks if the given path is inside a git repository.
// Returns true if it is, false otherwise.
// If path is not a repository due to git exit code 128, returns (false, nil).
// For other errors (git not found, permission issues, etc), returns (false, err).
func IsRepository(path string) (bool, error) {
	executor := gitshipExec.NewRealExecutor()
	return isRepositoryWith(context.Background(), executor, path)
}

func isRepositoryWith(ctx context.Context, executor gitshipExec.CommandExecutor, path string) (bool, error) {
	_, err := executor.Output(ctx, "", "git", "-C", path, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		// Exit code 128 is git's generic fatal error code - for this
		// command it means the directory is not part of a repository.
		var exitErr *exec.ExitError
		if gitshipErrors.As(err, &exitErr) && exitErr.ExitCode() == 128 {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
