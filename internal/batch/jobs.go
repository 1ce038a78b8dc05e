package batch

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"gothesis/internal/errors"
)

// File is the YAML layout of a batch request file:
//
//	jobs:
//	  - name: scores by class
//	    kind: oneway-anova
//	    variables: [CLASS, SCORE]
type File struct {
	Jobs []Job `yaml:"jobs"`
}

// ReadJobs decodes a batch file, rejecting unknown keys and jobs without a kind.
// Unnamed jobs are named after their position.
func ReadJobs(r io.Reader) ([]Job, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, errors.InvalidInput("batch file is empty")
		}
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "failed to parse batch file")
	}
	if len(f.Jobs) == 0 {
		return nil, errors.InvalidInput("batch file has no jobs")
	}
	for i := range f.Jobs {
		if strings.TrimSpace(f.Jobs[i].Kind) == "" {
			return nil, errors.InvalidInput(fmt.Sprintf("job %d has no kind", i+1))
		}
		if f.Jobs[i].Name == "" {
			f.Jobs[i].Name = fmt.Sprintf("job-%d", i+1)
		}
	}
	return f.Jobs, nil
}

// ReadJobsFile opens path and decodes it with ReadJobs
func ReadJobsFile(path string) ([]Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open batch file %s", path)
	}
	defer f.Close()
	return ReadJobs(f)
}
