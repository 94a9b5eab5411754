package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/stackgen/pkg/artifact"
	"github.com/goliatone/stackgen/pkg/cloud"
	"github.com/goliatone/stackgen/pkg/pattern"
	"github.com/goliatone/stackgen/pkg/pattern/postgres"
	"github.com/goliatone/stackgen/pkg/pattern/webapp"
	"github.com/goliatone/stackgen/pkg/prompt"
	"github.com/goliatone/stackgen/pkg/scaffold"
)

type initOptions struct {
	region       string
	output       string
	domain       string
	vpcID        string
	accountAlias string
	registryURL  string
}

func newInitCmd() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [pattern]",
		Short: "Scaffold a definition file for an application pattern",
		Long: `Init runs the interactive flow of the selected pattern and writes the
resulting definition file.

Examples:
    stackgen init postgres --region eu-west-1
    stackgen init webapp --output my-app.yaml --domain example.org`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.region, "region", "", "AWS region (defaults to AWS_REGION)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Definition file to write (defaults to <pattern>.yaml)")
	cmd.Flags().StringVar(&opts.domain, "domain", "", "Route53 hosted zone of the account")
	cmd.Flags().StringVar(&opts.vpcID, "vpc", "", "VPC id used to scope load balancer access")
	cmd.Flags().StringVar(&opts.accountAlias, "account-alias", "", "Account alias (defaults to the IAM account alias)")
	cmd.Flags().StringVar(&opts.registryURL, "registry-url", postgres.DefaultRegistryURL, "Artifact registry queried for image tags")

	return cmd
}

func runInit(cmd *cobra.Command, patternName string, opts initOptions) error {
	ctx := cmd.Context()

	region := opts.region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	if region == "" {
		region = "eu-west-1"
	}

	output := opts.output
	if output == "" {
		output = patternName + ".yaml"
	}

	aws, err := cloud.NewClient(ctx, region)
	if err != nil {
		return err
	}

	alias := opts.accountAlias
	if alias == "" {
		// Best effort; patterns fall back to prompting.
		alias, _ = aws.AccountAlias(ctx)
	}

	prompter := prompt.New()
	orchestrator := scaffold.New(scaffold.WithPatterns(
		postgres.New(prompter, aws,
			postgres.WithArtifactClient(artifact.NewClient(opts.registryURL))),
		webapp.New(prompter, aws),
	))

	definition, err := orchestrator.Generate(ctx, scaffold.Request{
		Pattern: patternName,
		Region:  region,
		Account: pattern.AccountInfo{
			Alias:  alias,
			Domain: opts.domain,
			VpcID:  opts.vpcID,
		},
		DefinitionFile: output,
	})
	if err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			return errors.New("aborted")
		}
		return err
	}

	if err := scaffold.WriteDefinition(output, definition); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Generated definition file %s\n", output)
	return nil
}
