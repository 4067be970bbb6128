package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jobeval/internal/evaluation"
	"jobeval/internal/evaluation/handler"
)

type evaluateFlags struct {
	file        string
	interactive bool
	static      staticFlags
}

func newEvaluateCommand(opts *options) *cobra.Command {
	flags := &evaluateFlags{}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a single application and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (flags.file == "") == !flags.interactive {
				return errors.New("exactly one of --file or --interactive is required")
			}

			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			var app evaluation.JobApplication
			if flags.interactive {
				app, err = promptApplication()
			} else {
				app, err = readApplication(flags.file)
			}
			if err != nil {
				return err
			}

			c, err := build(cmd.Context(), cfg, logger, prometheus.NewRegistry(), flags.static, false)
			if err != nil {
				return err
			}
			defer c.close()

			decision, err := c.service.Evaluate(cmd.Context(), app)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), decision.Result)
			return err
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "application file, same shape as the HTTP request body (json or yaml)")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "prompt for the application")
	cmd.Flags().StringVar(&flags.static.country, "country", "", "country reported by the static validator (default identity.office_country)")
	cmd.Flags().BoolVar(&flags.static.valid, "valid", false, "identity validity reported by the static validator")
	return cmd
}

// readApplication decodes an application file through viper so json and
// yaml are accepted alike, then applies the HTTP request validation.
func readApplication(path string) (evaluation.JobApplication, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return evaluation.JobApplication{}, fmt.Errorf("read application %s: %w", path, err)
	}

	var req handler.EvaluateRequest
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &req,
	})
	if err != nil {
		return evaluation.JobApplication{}, err
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return evaluation.JobApplication{}, fmt.Errorf("decode application %s: %w", path, err)
	}
	if err := req.Validate(); err != nil {
		return evaluation.JobApplication{}, err
	}
	return req.ToApplication(), nil
}

func promptApplication() (evaluation.JobApplication, error) {
	age, err := promptInt("Applicant age")
	if err != nil {
		return evaluation.JobApplication{}, err
	}
	number, err := (&promptui.Prompt{Label: "Identity number"}).Run()
	if err != nil {
		return evaluation.JobApplication{}, err
	}
	stack, err := (&promptui.Prompt{Label: "Tech stack (comma separated)"}).Run()
	if err != nil {
		return evaluation.JobApplication{}, err
	}
	years, err := promptInt("Years of experience")
	if err != nil {
		return evaluation.JobApplication{}, err
	}

	return evaluation.JobApplication{
		Applicant:         &evaluation.Applicant{Age: age, IdentityNumber: strings.TrimSpace(number)},
		TechStackList:     splitStack(stack),
		YearsOfExperience: years,
	}, nil
}

func promptInt(label string) (int, error) {
	p := promptui.Prompt{Label: label, Validate: validateNonNegative}
	raw, err := p.Run()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

func validateNonNegative(input string) error {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return errors.New("enter a whole number")
	}
	if n < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func splitStack(raw string) []string {
	var stack []string
	for _, entry := range strings.Split(raw, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			stack = append(stack, entry)
		}
	}
	return stack
}
