package cloud

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// mintBucketMarker identifies the credential-distribution bucket by naming
// convention.
const mintBucketMarker = "-stups-mint-"

// Client implements API against AWS.
type Client struct {
	region string
	ec2    *ec2.Client
	kms    *kms.Client
	s3     *s3.Client
	iam    *iam.Client
}

var _ API = (*Client)(nil)

// NewClient builds a Client for one region using the default credential
// chain.
func NewClient(ctx context.Context, region string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("cloud: loading AWS config: %w", err)
	}
	return &Client{
		region: region,
		ec2:    ec2.NewFromConfig(cfg),
		kms:    kms.NewFromConfig(cfg),
		s3:     s3.NewFromConfig(cfg),
		iam:    iam.NewFromConfig(cfg),
	}, nil
}

// Region reports the region the client operates in.
func (c *Client) Region() string {
	return c.region
}

func (c *Client) SecurityGroupByName(ctx context.Context, name string) (*SecurityGroup, error) {
	out, err := c.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("group-name"), Values: []string{name}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("cloud: describe security groups: %w", err)
	}
	if len(out.SecurityGroups) == 0 {
		return nil, nil
	}
	group := out.SecurityGroups[0]
	return &SecurityGroup{
		ID:   aws.ToString(group.GroupId),
		Name: aws.ToString(group.GroupName),
	}, nil
}

func (c *Client) ListKMSKeys(ctx context.Context) ([]KMSKey, error) {
	var keys []KMSKey
	paginator := kms.NewListKeysPaginator(c.kms, &kms.ListKeysInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("cloud: list KMS keys: %w", err)
		}
		for _, entry := range page.Keys {
			key, err := c.describeKMSKey(ctx, aws.ToString(entry.KeyId))
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (c *Client) describeKMSKey(ctx context.Context, keyID string) (KMSKey, error) {
	meta, err := c.kms.DescribeKey(ctx, &kms.DescribeKeyInput{KeyId: aws.String(keyID)})
	if err != nil {
		return KMSKey{}, fmt.Errorf("cloud: describe KMS key %s: %w", keyID, err)
	}
	aliases, err := c.kms.ListAliases(ctx, &kms.ListAliasesInput{KeyId: aws.String(keyID)})
	if err != nil {
		return KMSKey{}, fmt.Errorf("cloud: list aliases for KMS key %s: %w", keyID, err)
	}
	key := KMSKey{
		ID:          keyID,
		Description: aws.ToString(meta.KeyMetadata.Description),
		ARN:         aws.ToString(meta.KeyMetadata.Arn),
	}
	for _, alias := range aliases.Aliases {
		key.Aliases = append(key.Aliases, aws.ToString(alias.AliasName))
	}
	return key, nil
}

func (c *Client) Encrypt(ctx context.Context, keyID, plaintext string) (string, error) {
	out, err := c.kms.Encrypt(ctx, &kms.EncryptInput{
		KeyId:     aws.String(keyID),
		Plaintext: []byte(plaintext),
	})
	if err != nil {
		return "", fmt.Errorf("cloud: KMS encrypt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(out.CiphertextBlob), nil
}

func (c *Client) VPCAttribute(ctx context.Context, vpcID, attribute string) (string, error) {
	if attribute != "cidr_block" {
		return "", fmt.Errorf("cloud: unsupported VPC attribute %q", attribute)
	}
	out, err := c.ec2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{VpcIds: []string{vpcID}})
	if err != nil {
		return "", fmt.Errorf("cloud: describe VPC %s: %w", vpcID, err)
	}
	if len(out.Vpcs) == 0 {
		return "", fmt.Errorf("cloud: VPC %s not found", vpcID)
	}
	return aws.ToString(out.Vpcs[0].CidrBlock), nil
}

func (c *Client) EnsureS3Bucket(ctx context.Context, name string) error {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(name)})
	if err == nil {
		return nil
	}
	var notFound *s3types.NotFound
	if !errors.As(err, &notFound) {
		return fmt.Errorf("cloud: checking bucket %s: %w", name, err)
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(name)}
	if c.region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(c.region),
		}
	}
	if _, err := c.s3.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("cloud: creating bucket %s: %w", name, err)
	}
	return nil
}

func (c *Client) InstancesByTag(ctx context.Context, tagKey, tagValue string) ([]Instance, error) {
	var instances []Instance
	paginator := ec2.NewDescribeInstancesPaginator(c.ec2, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("tag-key"), Values: []string{tagKey}},
			{Name: aws.String("tag-value"), Values: []string{tagValue}},
		},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("cloud: describe instances: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				mapped := Instance{ID: aws.ToString(instance.InstanceId)}
				for _, group := range instance.SecurityGroups {
					mapped.SecurityGroups = append(mapped.SecurityGroups, SecurityGroup{
						ID:   aws.ToString(group.GroupId),
						Name: aws.ToString(group.GroupName),
					})
				}
				instances = append(instances, mapped)
			}
		}
	}
	return instances, nil
}

func (c *Client) AccountAlias(ctx context.Context) (string, error) {
	out, err := c.iam.ListAccountAliases(ctx, &iam.ListAccountAliasesInput{})
	if err != nil {
		return "", fmt.Errorf("cloud: list account aliases: %w", err)
	}
	if len(out.AccountAliases) == 0 {
		return "", nil
	}
	return out.AccountAliases[0], nil
}

func (c *Client) MintBucket(ctx context.Context) (string, error) {
	out, err := c.s3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return "", fmt.Errorf("cloud: list buckets: %w", err)
	}
	for _, bucket := range out.Buckets {
		if strings.Contains(aws.ToString(bucket.Name), mintBucketMarker) {
			return aws.ToString(bucket.Name), nil
		}
	}
	return "", nil
}
