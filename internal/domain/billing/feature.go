package billing

// FeatureKey identifies a gateable capability by a stable string key.
type FeatureKey string

// Features gated by the entitlement engine.
const (
	FeatureWhatsAppMessages FeatureKey = "whatsapp_messages"
	FeatureOrders           FeatureKey = "orders"
	FeatureProducts         FeatureKey = "products"
	FeatureDailyReports     FeatureKey = "reports_daily"
	FeaturePrintAgent       FeatureKey = "print_agent"
)

// String returns the string representation of the feature key
func (k FeatureKey) String() string {
	return string(k)
}

// Feature describes a gateable capability
type Feature struct {
	Key         FeatureKey
	Description string
}

// FeatureSet is a deduplicated set of feature keys
type FeatureSet map[FeatureKey]struct{}

// NewFeatureSet builds a set from the given keys
func NewFeatureSet(keys ...FeatureKey) FeatureSet {
	s := make(FeatureSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Add inserts a key into the set
func (s FeatureSet) Add(key FeatureKey) {
	s[key] = struct{}{}
}

// Has reports whether the set contains key
func (s FeatureSet) Has(key FeatureKey) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the set contents as a slice (unordered)
func (s FeatureSet) Keys() []FeatureKey {
	keys := make([]FeatureKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}
