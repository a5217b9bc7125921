package weather

import "testing"

func TestQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Query
		wantErr bool
	}{
		{"valid", Query{Latitude: 28.61, Longitude: 77.21}, false},
		{"boundary", Query{Latitude: -90, Longitude: 180}, false},
		{"latitude too high", Query{Latitude: 91, Longitude: 0}, true},
		{"longitude too low", Query{Latitude: 0, Longitude: -181}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestQueryKeyBucketsNearbyCoordinates(t *testing.T) {
	a := Query{Latitude: 28.6139, Longitude: 77.2090}
	b := Query{Latitude: 28.6201, Longitude: 77.2155}
	if a.Key(0.25) != b.Key(0.25) {
		t.Fatalf("nearby coordinates should share a bucket: %s != %s", a.Key(0.25), b.Key(0.25))
	}

	far := Query{Latitude: 28.99, Longitude: 77.21}
	if a.Key(0.25) == far.Key(0.25) {
		t.Fatalf("distant coordinates should not share a bucket: %s", a.Key(0.25))
	}
}

func TestQueryKeyIncludesCityID(t *testing.T) {
	id := 42182
	withCity := Query{Latitude: 28.6139, Longitude: 77.2090, CityID: &id}
	without := Query{Latitude: 28.6139, Longitude: 77.2090}
	if withCity.Key(0.25) == without.Key(0.25) {
		t.Fatalf("city-scoped query should get its own key: %s", withCity.Key(0.25))
	}
}

func TestFailureKindOf(t *testing.T) {
	timeout := &ProviderError{Provider: "p", Kind: FailureTimeout}
	if got := FailureKindOf(timeout); got != FailureTimeout {
		t.Fatalf("FailureKindOf(timeout) = %s", got)
	}
	parse := &ProviderError{Provider: "p", Kind: FailureParseErr}
	if got := FailureKindOf(parse); got != FailureParseErr {
		t.Fatalf("FailureKindOf(parse) = %s", got)
	}
}
