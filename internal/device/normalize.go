package device

import (
	"regexp"
	"strings"
)

var intelCoreModel = regexp.MustCompile(`^i[3579]-\d+`)

// NormalizeCPUModel prefixes bare Intel Core model numbers such as "i7-1360P" with "Core"
func NormalizeCPUModel(brand, model string) string {
	if model == "" {
		return model
	}
	if brand == "Intel" && intelCoreModel.MatchString(model) && !strings.HasPrefix(model, "Core") {
		return "Core " + model
	}
	return model
}

// NormalizeWiFiStandard rewrites the form's "Wi-Fi 6E" spelling to the data set's "WiFi 6E"
func NormalizeWiFiStandard(standard string) string {
	return strings.ReplaceAll(standard, "Wi-Fi ", "WiFi ")
}

// isSentinel returns true for values that mean the submitter left the field blank
func isSentinel(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || v == "_No response_" || strings.EqualFold(v, "No response") || strings.EqualFold(v, "None")
}
