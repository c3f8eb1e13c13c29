package geo

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/sjson"
	"googlemaps.github.io/maps"
)

// Encode marshals geocoding candidates in the service's wire shape. The maps
// client decodes into structs without omitempty, so fields the service left
// out are removed again instead of being sent as zero values.
func Encode(results []maps.GeocodingResult) (json.RawMessage, error) {
	raw, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("encode geocoding results: %w", err)
	}
	for i, res := range results {
		for _, path := range absentFields(res) {
			raw, err = sjson.DeleteBytes(raw, strconv.Itoa(i)+"."+path)
			if err != nil {
				return nil, fmt.Errorf("encode geocoding results: %w", err)
			}
		}
	}
	return raw, nil
}

func absentFields(res maps.GeocodingResult) []string {
	var paths []string
	if res.AddressComponents == nil {
		paths = append(paths, "address_components")
	}
	if res.FormattedAddress == "" {
		paths = append(paths, "formatted_address")
	}
	if res.Types == nil {
		paths = append(paths, "types")
	}
	if res.PlaceID == "" {
		paths = append(paths, "place_id")
	}
	if !res.PartialMatch {
		paths = append(paths, "partial_match")
	}
	if res.PlusCode == (maps.AddressPlusCode{}) {
		paths = append(paths, "plus_code")
	}
	if res.Geometry.LocationType == "" {
		paths = append(paths, "geometry.location_type")
	}
	if res.Geometry.Bounds == (maps.LatLngBounds{}) {
		paths = append(paths, "geometry.bounds")
	}
	if res.Geometry.Viewport == (maps.LatLngBounds{}) {
		paths = append(paths, "geometry.viewport")
	}
	if res.Geometry.Types == nil {
		paths = append(paths, "geometry.types")
	}
	return paths
}
