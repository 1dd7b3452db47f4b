// internal/service/features.go
package service

import (
	"encoding/json"
	"strconv"

	"github.com/outreachworks/canvass-backend/internal/model"
)

// Feature keys stored inside campaign/organization features blobs.
const (
	FeatureTexterUISettings         = "TEXTER_UI_SETTINGS"
	FeatureDynamicAssignmentBatches = "DYNAMICASSIGNMENT_BATCHES"
	FeatureArchivedPermanently      = "ARCHIVED_PERMANENTLY"

	ConfigDefaultBatchSize      = "DEFAULT_BATCHSIZE"
	ConfigDefaultResponseWindow = "DEFAULT_RESPONSEWINDOW"
	ConfigReferenceTimezone     = "DST_REFERENCE_TIMEZONE"
)

// parseFeatures decodes a features blob, tolerating empty or mangled
// JSON the way the rest of the system does: bad blobs read as empty.
func parseFeatures(blob string) map[string]any {
	features := map[string]any{}
	if blob == "" {
		return features
	}
	if err := json.Unmarshal([]byte(blob), &features); err != nil {
		return map[string]any{}
	}
	return features
}

func featureBool(blob, key string) bool {
	v, ok := parseFeatures(blob)[key]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	default:
		return false
	}
}

// orgConfigInt reads a numeric config value from the organization's
// features blob, falling back to def.
func orgConfigInt(org *model.Organization, key string, def int) int {
	if org == nil {
		return def
	}
	v, ok := parseFeatures(org.Features)[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n
		}
	}
	return def
}

func orgConfigString(org *model.Organization, key, def string) string {
	if org == nil {
		return def
	}
	if v, ok := parseFeatures(org.Features)[key].(string); ok && v != "" {
		return v
	}
	return def
}
