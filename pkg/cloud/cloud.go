// Package cloud exposes the read-mostly provider lookups the gather flows
// depend on: security group discovery, KMS key listing and encryption, VPC
// attributes, S3 bucket checks, and tag-based instance discovery. Lookups
// are treated as opaque external services; there is no retrying, caching,
// or rate limiting here.
package cloud

import "context"

// SecurityGroup identifies an EC2 security group.
type SecurityGroup struct {
	ID   string
	Name string
}

// KMSKey describes one customer KMS key.
type KMSKey struct {
	ID          string
	Description string
	ARN         string
	Aliases     []string
}

// Instance is the subset of an EC2 instance the gather flows inspect.
type Instance struct {
	ID             string
	SecurityGroups []SecurityGroup
}

// API is the lookup surface patterns consume. Tests substitute a fake.
type API interface {
	// SecurityGroupByName returns the group with the given name, or nil
	// when no such group exists.
	SecurityGroupByName(ctx context.Context, name string) (*SecurityGroup, error)

	// ListKMSKeys returns every KMS key in the region, including each
	// key's description, ARN, and alias names.
	ListKMSKeys(ctx context.Context) ([]KMSKey, error)

	// Encrypt encrypts plaintext under the given key and returns the
	// base64-encoded ciphertext.
	Encrypt(ctx context.Context, keyID, plaintext string) (string, error)

	// VPCAttribute reads a named attribute of a VPC; "cidr_block" is the
	// only attribute the built-in patterns use.
	VPCAttribute(ctx context.Context, vpcID, attribute string) (string, error)

	// EnsureS3Bucket verifies the bucket exists, creating it when missing.
	// Side-effecting and loud: any failure is returned to the caller.
	EnsureS3Bucket(ctx context.Context, name string) error

	// InstancesByTag lists instances carrying the given tag key/value pair.
	InstancesByTag(ctx context.Context, tagKey, tagValue string) ([]Instance, error)

	// AccountAlias returns the first IAM account alias, or "" when the
	// account has none.
	AccountAlias(ctx context.Context) (string, error)

	// MintBucket returns the name of the account's mint (credential
	// distribution) bucket, or "" when none can be found.
	MintBucket(ctx context.Context) (string, error)
}
