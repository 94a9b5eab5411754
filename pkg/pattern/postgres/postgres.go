// Package postgres implements the highly-available PostgreSQL cluster
// pattern: an auto-scaled group of database nodes behind internal load
// balancers, with WAL archiving to S3 and optional KMS-encrypted
// credentials.
package postgres

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/stackgen/pkg/artifact"
	"github.com/goliatone/stackgen/pkg/cloud"
	"github.com/goliatone/stackgen/pkg/pattern"
	"github.com/goliatone/stackgen/pkg/prompt"
	"github.com/goliatone/stackgen/pkg/render"
	"github.com/goliatone/stackgen/pkg/variables"
)

// PatternName is the identifier the pattern registers under.
const PatternName = "postgres"

const (
	postgresPort    = 5432
	healthcheckPort = 8008

	// DefaultRegistryURL is the artifact registry queried for the latest
	// released database image.
	DefaultRegistryURL = "https://registry.opensource.zalan.do"

	imageAddress = "registry.opensource.zalan.do/acid/spilo-9.4"
	imageTagPath = "/teams/acid/artifacts/spilo-9.4/tags"

	bastionGroupName = "Odd (SSH Bastion Host)"
)

// Pattern implements pattern.Pattern for the HA PostgreSQL cluster.
type Pattern struct {
	prompter  *prompt.Prompter
	cloud     cloud.API
	artifacts *artifact.Client
}

var _ pattern.Pattern = (*Pattern)(nil)

// Option customises the Pattern.
type Option func(*Pattern)

// WithArtifactClient points the docker-image default lookup at a registry.
// Without it the prompt default stays empty and the operator types the
// image by hand.
func WithArtifactClient(client *artifact.Client) Option {
	return func(p *Pattern) {
		p.artifacts = client
	}
}

// New constructs the pattern around a prompter and cloud lookups.
func New(prompter *prompt.Prompter, cloudAPI cloud.API, options ...Option) *Pattern {
	p := &Pattern{
		prompter: prompter,
		cloud:    cloudAPI,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Name reports the pattern identifier.
func (p *Pattern) Name() string {
	return PatternName
}

// Defaults returns the pattern's default variable table. The version and
// ImageVersion defaults are placeholders resolved by the orchestration
// tool's own rendering pass.
func (p *Pattern) Defaults() variables.Map {
	return variables.Map{
		"version":                  "{{Arguments.version}}",
		"ImageVersion":             "{{Arguments.ImageVersion}}",
		"discovery_domain":         "postgres.example.com",
		"docker_image":             nil,
		"ebs_optimized":            nil,
		"elb_access_cidr":          "0.0.0.0/0",
		"fsoptions":                "noatime,nodiratime,nobarrier",
		"fstype":                   "ext4",
		"healthcheck_port":         healthcheckPort,
		"hosted_zone":              "example.com",
		"add_replica_loadbalancer": false,
		"instance_type":            "t2.micro",
		"kms_arn":                  nil,
		"odd_sg_id":                nil,
		"pgpassword_admin":         "admin",
		"pgpassword_standby":       "standby",
		"pgpassword_superuser":     "zalando",
		"postgres_port":            postgresPort,
		"scalyr_account_key":       nil,
		"snapshot_id":              nil,
		"use_ebs":                  true,
		"volume_iops":              300,
		"volume_size":              10,
		"volume_type":              "gp2",
		"wal_s3_bucket":            nil,
		"zmon_sg_id":               nil,
	}
}

// Render produces the cluster definition text.
func (p *Pattern) Render(vars variables.Map) (string, error) {
	return render.Render(definitionTemplate, vars)
}

// Gather runs the interactive flow that fills vars. The only hard-fail
// lookup is the KMS key listing: when the operator asked for encryption
// and no key exists, a pattern.UsageError is returned.
func (p *Pattern) Gather(ctx context.Context, req pattern.Request, vars variables.Map) error {
	setImage, err := p.prompter.Confirm(ctx, "Do you want to set the docker image now?", false)
	if err != nil {
		return err
	}
	if setImage {
		err = p.prompter.Ask(ctx, vars, "docker_image", "Docker image version",
			prompt.LazyDefault(func() string { return p.latestImage(ctx) }))
		if err != nil {
			return err
		}
	}

	err = p.prompter.Ask(ctx, vars, "wal_s3_bucket", "Postgres WAL S3 bucket to use",
		prompt.Default(p.walBucketDefault(ctx, req)))
	if err != nil {
		return err
	}

	if err := p.prompter.Ask(ctx, vars, "instance_type", "EC2 instance type", prompt.Default("t2.micro")); err != nil {
		return err
	}

	hostedZone := req.Account.Domain
	if hostedZone == "" {
		hostedZone = "example.com"
	}
	if !strings.HasSuffix(hostedZone, ".") {
		hostedZone += "."
	}
	vars["hosted_zone"] = hostedZone

	err = p.prompter.Ask(ctx, vars, "discovery_domain", "Etcd discovery domain",
		prompt.Default("postgres."+strings.TrimSuffix(hostedZone, ".")))
	if err != nil {
		return err
	}

	replica, err := p.prompter.Confirm(ctx, "Do you want a replica load balancer?", false)
	if err != nil {
		return err
	}
	vars["add_replica_loadbalancer"] = replica

	err = p.prompter.Ask(ctx, vars, "elb_access_cidr",
		"Which network should be allowed to access the load balancers? (default=vpc)",
		prompt.LazyDefault(func() string { return p.vpcCIDR(ctx, req) }))
	if err != nil {
		return err
	}

	if err := p.gatherBastionAccess(ctx, vars); err != nil {
		return err
	}
	if err := p.gatherMonitoringAccess(ctx, vars); err != nil {
		return err
	}
	if err := p.gatherStorage(ctx, vars); err != nil {
		return err
	}

	if err := p.prompter.Ask(ctx, vars, "fstype", "Filesystem for the data partition", prompt.Default("ext4")); err != nil {
		return err
	}
	err = p.prompter.Ask(ctx, vars, "fsoptions", "Filesystem mount options (comma-separated)",
		prompt.Default("noatime,nodiratime,nobarrier"))
	if err != nil {
		return err
	}
	if err := p.prompter.Ask(ctx, vars, "scalyr_account_key", "Account key for your scalyr account", prompt.Default("")); err != nil {
		return err
	}

	if err := p.gatherPasswords(ctx, vars); err != nil {
		return err
	}

	return p.cloud.EnsureS3Bucket(ctx, vars.String("wal_s3_bucket"))
}

func (p *Pattern) latestImage(ctx context.Context) string {
	if p.artifacts == nil {
		return ""
	}
	return artifact.Image(imageAddress, p.artifacts.LatestTag(ctx, imageTagPath))
}

func (p *Pattern) walBucketDefault(ctx context.Context, req pattern.Request) string {
	alias := req.Account.Alias
	if alias == "" {
		// Best effort; the operator can still type the bucket name.
		alias, _ = p.cloud.AccountAlias(ctx)
	}
	return fmt.Sprintf("%s-%s-spilo-app", alias, req.Region)
}

func (p *Pattern) vpcCIDR(ctx context.Context, req pattern.Request) string {
	if req.Account.VpcID == "" {
		return "0.0.0.0/0"
	}
	cidr, err := p.cloud.VPCAttribute(ctx, req.Account.VpcID, "cidr_block")
	if err != nil || cidr == "" {
		return "0.0.0.0/0"
	}
	return cidr
}

func (p *Pattern) gatherBastionAccess(ctx context.Context, vars variables.Map) error {
	group, err := p.cloud.SecurityGroupByName(ctx, bastionGroupName)
	if err != nil {
		return err
	}
	if group == nil {
		return nil
	}
	allow, err := p.prompter.Confirm(ctx,
		fmt.Sprintf("Do you want to allow access to the Spilo nodes from %s?", bastionGroupName), true)
	if err != nil {
		return err
	}
	if allow {
		vars["odd_sg_id"] = group.ID
	}
	return nil
}

// gatherMonitoringAccess discovers the security groups attached to the
// monitoring workers and, with the operator's consent, allows them in.
func (p *Pattern) gatherMonitoringAccess(ctx context.Context, vars variables.Map) error {
	instances, err := p.cloud.InstancesByTag(ctx, "StackName", "zmon-worker")
	if err != nil {
		return err
	}

	var groupIDs []string
	seen := make(map[string]struct{})
	for _, instance := range instances {
		for _, group := range instance.SecurityGroups {
			if !strings.Contains(group.Name, "zmon") {
				continue
			}
			if _, ok := seen[group.ID]; ok {
				continue
			}
			seen[group.ID] = struct{}{}
			groupIDs = append(groupIDs, group.ID)
		}
	}

	if len(groupIDs) == 0 {
		return p.prompter.Info(ctx, "Could not find zmon security group")
	}

	allow, err := p.prompter.Confirm(ctx, "Do you want to allow access to the Spilo nodes from zmon?", true)
	if err != nil {
		return err
	}
	if !allow {
		return nil
	}

	if len(groupIDs) == 1 {
		vars["zmon_sg_id"] = groupIDs[0]
		return nil
	}

	options := make([]prompt.ChoiceOption, len(groupIDs))
	for i, id := range groupIDs {
		options[i] = prompt.ChoiceOption{Value: id}
	}
	return p.prompter.Choice(ctx, vars, "zmon_sg_id",
		"Which security group should we allow access from?", options, groupIDs[0])
}

func (p *Pattern) gatherStorage(ctx context.Context, vars variables.Map) error {
	instanceType := vars.String("instance_type")

	useEBS := true
	if HasEphemeralStorage(instanceType) {
		var err error
		useEBS, err = p.prompter.Confirm(ctx,
			"Do you want the database data directory on external (EBS) storage?", true)
		if err != nil {
			return err
		}
	}
	vars["use_ebs"] = useEBS
	if !useEBS {
		return nil
	}

	err := p.prompter.Ask(ctx, vars, "volume_size", "Database volume size (GB, 10 or more)",
		prompt.Default("10"), prompt.Validate(prompt.IntValue()))
	if err != nil {
		return err
	}
	err = p.prompter.Ask(ctx, vars, "volume_type", "Database volume type (gp2, io1 or standard)",
		prompt.Default("gp2"))
	if err != nil {
		return err
	}
	if vars.String("volume_type") == "io1" {
		maxIOPS := vars.Int("volume_size") * 30
		err = p.prompter.Ask(ctx, vars, "volume_iops",
			fmt.Sprintf("Provisioned I/O operations per second (100 - %d)", maxIOPS),
			prompt.Default(strconv.Itoa(maxIOPS)), prompt.Validate(prompt.IntValue()))
		if err != nil {
			return err
		}
	}
	err = p.prompter.Ask(ctx, vars, "snapshot_id", "ID of the snapshot to populate EBS volume from",
		prompt.Default(""))
	if err != nil {
		return err
	}
	if EBSOptimizedSupported(instanceType) {
		vars["ebs_optimized"] = true
	}
	return nil
}

func (p *Pattern) gatherPasswords(ctx context.Context, vars variables.Map) error {
	err := p.prompter.Ask(ctx, vars, "pgpassword_superuser", "Password for PostgreSQL superuser [random]",
		prompt.Secret(), prompt.HideDefault(),
		prompt.LazyDefault(func() string { return prompt.RandomPassword(64) }))
	if err != nil {
		return err
	}
	err = p.prompter.Ask(ctx, vars, "pgpassword_standby", "Password for PostgreSQL user standby [random]",
		prompt.Secret(), prompt.HideDefault(),
		prompt.LazyDefault(func() string { return prompt.RandomPassword(64) }))
	if err != nil {
		return err
	}
	err = p.prompter.Ask(ctx, vars, "pgpassword_admin", "Password for PostgreSQL user admin",
		prompt.Secret(), prompt.Default("admin"))
	if err != nil {
		return err
	}

	encryptPasswords, err := p.prompter.Confirm(ctx, "Do you wish to encrypt these passwords using KMS?", false)
	if err != nil {
		return err
	}
	if !encryptPasswords {
		return nil
	}
	return p.encryptPasswords(ctx, vars)
}

func (p *Pattern) encryptPasswords(ctx context.Context, vars variables.Map) error {
	allKeys, err := p.cloud.ListKMSKeys(ctx)
	if err != nil {
		return err
	}

	var keys []cloud.KMSKey
	for _, key := range allKeys {
		if hasAlias(key, "alias/aws/ebs") {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return pattern.UsageError("no KMS key is available for encrypting and decrypting; " +
			"ensure you have at least 1 key available")
	}

	options := make([]prompt.ChoiceOption, len(keys))
	for i, key := range keys {
		options[i] = prompt.ChoiceOption{
			Value: key.ID,
			Label: fmt.Sprintf("%s: %s", key.ID, key.Description),
		}
	}
	keyID, err := p.prompter.Pick(ctx, "Please select the encryption key", options, keys[0].ID)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if key.ID == keyID {
			vars["kms_arn"] = key.ARN
		}
	}

	var passwordKeys []string
	for key := range vars {
		if strings.HasPrefix(key, "pgpassword_") {
			passwordKeys = append(passwordKeys, key)
		}
	}
	sort.Strings(passwordKeys)

	for _, key := range passwordKeys {
		ciphertext, err := p.cloud.Encrypt(ctx, keyID, vars.String(key))
		if err != nil {
			return err
		}
		vars[key] = "aws:kms:" + ciphertext
	}
	return nil
}

func hasAlias(key cloud.KMSKey, alias string) bool {
	for _, a := range key.Aliases {
		if strings.Contains(a, alias) {
			return true
		}
	}
	return false
}
