package utils

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	majorVersion   = 1
	minorVersion   = 0
	releaseVersion = 0
)

//CommitID is the last commit ID of this build.
var CommitID string

// GenerateVersionStr generate the version string.
func GenerateVersionStr() string {
	versionStr := fmt.Sprintf("%d.%d.%d", majorVersion, minorVersion, releaseVersion)

	if CommitID != "" {
		versionStr = versionStr + "." + CommitID
	}

	return versionStr
}

var (
	firstSupportedArrayVersion   = []int{1, 5}
	firstUnsupportedArrayVersion = []int{3, 1}
)

// parseArrayVersion turn "2.2.0.1-dev" into [2 2 0 1], anything after '-' is ignored.
func parseArrayVersion(version string) ([]int, error) {
	if idx := strings.Index(version, "-"); idx >= 0 {
		version = version[:idx]
	}

	parts := strings.Split(strings.TrimSpace(version), ".")
	numbers := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("array version %q is not valid", version)
		}
		numbers = append(numbers, n)
	}

	return numbers, nil
}

func compareVersion(a, b []int) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}

//IsSupportedArrayVersion check whether the driver can manage an array running the given version.
func IsSupportedArrayVersion(version string) (bool, error) {
	v, err := parseArrayVersion(version)
	if err != nil {
		return false, err
	}

	return compareVersion(v, firstSupportedArrayVersion) >= 0 &&
		compareVersion(v, firstUnsupportedArrayVersion) < 0, nil
}
