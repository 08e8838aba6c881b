package issueform

import (
	"fmt"
	"path"
	"strings"
)

// Identity is the pair of values used to name the branch and file for a device submission
type Identity struct {
	DeviceID string
	Brand    string
}

// BranchName returns the name of the branch a submission is published on
func (id Identity) BranchName() string {
	return "new-device/" + id.DeviceID
}

// FilePath returns the slash-separated path of the device file below root
func (id Identity) FilePath(root string) string {
	return path.Join(root, id.Brand, id.DeviceID+".yaml")
}

// ExtractIdentity scans an issue body for the Device ID and Brand sections and returns the first non-empty line of
// each, lowercased. It does not consult the full heading table, so it works on bodies that Extract would reject
func ExtractIdentity(body string) (Identity, error) {
	if strings.TrimSpace(body) == "" {
		return Identity{}, &ValidationError{Err: ErrEmptyBody}
	}

	var (
		deviceID string
		brand    string
		current  string
	)

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "### Device ID") {
			current = KeyID
			continue
		} else if strings.HasPrefix(line, "### Brand") {
			current = KeyBrand
			continue
		}

		if line != "" && !strings.HasPrefix(line, "###") {
			switch current {
			case KeyID:
				deviceID = line
				current = ""
			case KeyBrand:
				brand = line
				current = ""
			}
		}

		if deviceID != "" && brand != "" {
			break
		}
	}

	if deviceID == "" || brand == "" {
		return Identity{}, &ValidationError{
			Err:    ErrMissingIdentity,
			Reason: fmt.Sprintf("found ID '%s', brand '%s'", deviceID, brand),
		}
	}

	return Identity{
		DeviceID: strings.ToLower(deviceID),
		Brand:    strings.ToLower(brand),
	}, nil
}
