package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"labelgen/internal/config"
)

// Requirement defines an external binary labelgen relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// PrinterRequirements lists the binaries needed by a printer driver. Only the
// cups driver shells out; the other drivers need nothing beyond the kernel.
func PrinterRequirements(driver, lpBinary string) []Requirement {
	if driver != config.DriverCUPS {
		return nil
	}
	if strings.TrimSpace(lpBinary) == "" {
		lpBinary = "lp"
	}
	return []Requirement{
		{
			Name:        "lp",
			Command:     lpBinary,
			Description: "Required to submit raw jobs to CUPS",
		},
		{
			Name:        "lpstat",
			Command:     "lpstat",
			Description: "Lists CUPS queues for status output",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Path = path
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the required dependencies that are unavailable.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
