package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"gothesis/internal/batch"
	"gothesis/internal/engine"
)

func newBatchCmd(a *app) *cobra.Command {
	var load loadFlags
	var jobsFile string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run every analysis listed in a YAML jobs file",
		Long: `Run a list of analyses against one dataset in parallel and print the results as JSON.

The jobs file looks like:

  jobs:
    - name: scores by class
      kind: oneway-anova
      variables: [CLASS, SCORE]

Parallelism follows batch.concurrency and batch.capacity from the configuration.

Example: gothesis batch -f survey.xlsx --jobs analyses.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := batch.ReadJobsFile(jobsFile)
			if err != nil {
				return err
			}
			ds, err := load.dataset(a)
			if err != nil {
				return err
			}
			for i := range jobs {
				jobs[i].Variables = load.names(jobs[i].Variables)
			}

			x := batch.NewExecutor(engine.New(a.cfg, a.log), a.cfg.Batch, a.log)
			results, err := x.Run(cmd.Context(), ds, jobs)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return fmt.Errorf("encode results: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d job(s) failed", failed, len(results))
			}
			return nil
		},
	}

	load.register(cmd)
	cmd.Flags().StringVar(&jobsFile, "jobs", "", "YAML file listing the analyses to run")
	_ = cmd.MarkFlagRequired("jobs")
	return cmd
}
