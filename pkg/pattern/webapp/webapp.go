// Package webapp implements the multi-region HTTP application pattern: an
// auto-scaled Docker application behind a weighted-DNS load balancer, plus
// a per-region base-resources stack (role, security groups, latency DNS
// record) shared by every deployment in that region.
//
// Gather emits the base-resources definition eagerly as
// "<stem>-base.yaml" next to the target definition file; the deployment
// definition itself is returned by Render and written by the caller.
package webapp

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/stackgen/pkg/cloud"
	"github.com/goliatone/stackgen/pkg/pattern"
	"github.com/goliatone/stackgen/pkg/prompt"
	"github.com/goliatone/stackgen/pkg/render"
	"github.com/goliatone/stackgen/pkg/variables"
)

// PatternName is the identifier the pattern registers under.
const PatternName = "webapp"

// Pattern implements pattern.Pattern for the multi-region HTTP application.
type Pattern struct {
	prompter *prompt.Prompter
	cloud    cloud.API
}

var _ pattern.Pattern = (*Pattern)(nil)

// New constructs the pattern around a prompter and cloud lookups.
func New(prompter *prompt.Prompter, cloudAPI cloud.API) *Pattern {
	return &Pattern{
		prompter: prompter,
		cloud:    cloudAPI,
	}
}

// Name reports the pattern identifier.
func (p *Pattern) Name() string {
	return PatternName
}

// Defaults returns the pattern's default variable table. The ImageVersion,
// Region and StackVersion defaults are placeholders resolved by the
// orchestration tool's own rendering pass.
func (p *Pattern) Defaults() variables.Map {
	return variables.Map{
		"ImageVersion":           "{{Arguments.ImageVersion}}",
		"Region":                 "{{AccountInfo.Region}}",
		"StackVersion":           "{{SenzaInfo.StackVersion}}",
		"application_id":         "hello-world",
		"application_id_camel":   "HelloWorld",
		"docker_image":           "stups/hello-world",
		"http_port":              8080,
		"http_health_check_path": "/",
		"instance_type":          "t2.micro",
		"loadbalancer_scheme":    "internal",
		"mint_bucket":            nil,
		"hosted_zone":            "example.com.",
	}
}

// Render produces the per-deployment definition text.
func (p *Pattern) Render(vars variables.Map) (string, error) {
	return render.Render(deploymentTemplate, vars)
}

// Gather runs the interactive flow and writes the base-resources
// definition file derived from req.DefinitionFile.
func (p *Pattern) Gather(ctx context.Context, req pattern.Request, vars variables.Map) error {
	// Application id is capped well below the 32-character load balancer
	// name limit once the region suffixes are appended.
	err := p.prompter.Ask(ctx, vars, "application_id", "Application ID",
		prompt.Default("hello-world"),
		prompt.Validate(prompt.CheckValue(60, "^[a-zA-Z][-a-zA-Z0-9]*$")))
	if err != nil {
		return err
	}
	err = p.prompter.Ask(ctx, vars, "docker_image",
		`Docker image without tag/version (e.g. "pierone.example.org/myteam/myapp")`,
		prompt.Default("stups/hello-world"))
	if err != nil {
		return err
	}
	err = p.prompter.Ask(ctx, vars, "http_port", "HTTP port",
		prompt.Default("8080"), prompt.Validate(prompt.IntValue()))
	if err != nil {
		return err
	}
	if err := p.prompter.Ask(ctx, vars, "http_health_check_path", "HTTP health check path", prompt.Default("/")); err != nil {
		return err
	}
	if err := p.prompter.Ask(ctx, vars, "instance_type", "EC2 instance type", prompt.Default("t2.micro")); err != nil {
		return err
	}

	if err := p.gatherMintBucket(ctx, vars); err != nil {
		return err
	}

	err = p.prompter.Choice(ctx, vars, "loadbalancer_scheme",
		"Please select the load balancer scheme",
		[]prompt.ChoiceOption{
			{Value: "internal", Label: "internal: only accessible from the own VPC"},
			{Value: "internet-facing", Label: "internet-facing: accessible from the public internet"},
		}, "internal")
	if err != nil {
		return err
	}

	vars["application_id_camel"] = camelCase(vars.String("application_id"))

	hostedZone := req.Account.Domain
	if hostedZone == "" {
		hostedZone = "example.com"
	}
	if !strings.HasSuffix(hostedZone, ".") {
		hostedZone += "."
	}
	vars["hosted_zone"] = hostedZone

	baseFile := baseFileName(req.DefinitionFile)
	if err := p.prompter.Info(ctx, fmt.Sprintf("Generating base definition file %s..", baseFile)); err != nil {
		return err
	}
	baseYAML, err := render.Render(baseTemplate, variables.Apply(vars.Clone(), p.Defaults()))
	if err != nil {
		return err
	}
	if err := render.ValidateYAML(baseYAML); err != nil {
		return err
	}
	if err := os.WriteFile(baseFile, []byte(baseYAML), 0o644); err != nil {
		return fmt.Errorf("webapp: writing base definition: %w", err)
	}

	return p.prompter.Info(ctx, fmt.Sprintf(
		"Prepare your stacks by executing: \"senza create %s resources --region %s\"", baseFile, req.Region))
}

func (p *Pattern) gatherMintBucket(ctx context.Context, vars variables.Map) error {
	if vars.Has("mint_bucket") {
		return nil
	}

	needsMint := strings.Contains(vars.String("docker_image"), "pierone")
	if !needsMint {
		var err error
		needsMint, err = p.prompter.Confirm(ctx, "Did you need OAuth credentials from Mint?", false)
		if err != nil {
			return err
		}
	}
	if !needsMint {
		vars["mint_bucket"] = nil
		return nil
	}

	return p.prompter.Ask(ctx, vars, "mint_bucket", "Mint S3 bucket name",
		prompt.LazyDefault(func() string {
			bucket, _ := p.cloud.MintBucket(ctx)
			return bucket
		}))
}

// baseFileName strips the final extension of the deployment definition
// path and appends "-base.yaml".
func baseFileName(definitionFile string) string {
	stem := definitionFile
	if idx := strings.LastIndex(definitionFile, "."); idx > 0 {
		stem = definitionFile[:idx]
	}
	return stem + "-base.yaml"
}

// camelCase turns a hyphenated identifier into the CamelCase form used for
// CloudFormation logical ids, e.g. "hello-world" becomes "HelloWorld".
func camelCase(id string) string {
	var b strings.Builder
	for _, part := range strings.Split(id, "-") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(strings.ToLower(part[1:]))
	}
	return b.String()
}
