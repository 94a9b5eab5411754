package postgres

import "strings"

// familyTraits captures the storage capabilities of one EC2 instance
// family that the gather flow branches on.
type familyTraits struct {
	// ephemeralDisks marks families whose instance store can hold the
	// data directory, making external EBS storage optional.
	ephemeralDisks bool

	// ebsOptimizedSizes lists the sizes supporting EBS-optimized mode,
	// per the EC2 documentation.
	ebsOptimizedSizes []string
}

var instanceFamilies = map[string]familyTraits{
	"c1":  {ebsOptimizedSizes: []string{"large"}},
	"c3":  {ephemeralDisks: true, ebsOptimizedSizes: []string{"xlarge", "2xlarge", "4xlarge"}},
	"c4":  {ebsOptimizedSizes: []string{"large", "xlarge", "2xlarge", "4xlarge", "8xlarge"}},
	"d2":  {ebsOptimizedSizes: []string{"xlarge", "2xlarge", "4xlarge", "8xlarge"}},
	"g2":  {ephemeralDisks: true, ebsOptimizedSizes: []string{"2xlarge"}},
	"hi1": {ephemeralDisks: true},
	"i2":  {ephemeralDisks: true, ebsOptimizedSizes: []string{"xlarge", "2xlarge", "4xlarge"}},
	"m1":  {ebsOptimizedSizes: []string{"large", "xlarge"}},
	"m2":  {ebsOptimizedSizes: []string{"2xlarge", "4xlarge"}},
	"m3":  {ephemeralDisks: true, ebsOptimizedSizes: []string{"xlarge", "2xlarge"}},
	"r3":  {ephemeralDisks: true, ebsOptimizedSizes: []string{"xlarge", "2xlarge", "4xlarge"}},
}

func splitInstanceType(instanceType string) (family, size string) {
	family, size, _ = strings.Cut(strings.ToLower(instanceType), ".")
	return family, size
}

// EBSOptimizedSupported reports whether the instance type can run in
// EBS-optimized mode.
func EBSOptimizedSupported(instanceType string) bool {
	family, size := splitInstanceType(instanceType)
	traits, ok := instanceFamilies[family]
	if !ok {
		return false
	}
	for _, s := range traits.ebsOptimizedSizes {
		if s == size {
			return true
		}
	}
	return false
}

// HasEphemeralStorage reports whether the instance family offers instance
// store disks, in which case the operator may decline external EBS
// storage for the data directory.
func HasEphemeralStorage(instanceType string) bool {
	family, _ := splitInstanceType(instanceType)
	return instanceFamilies[family].ephemeralDisks
}
