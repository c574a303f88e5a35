package mongo

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/storefront/storefront-api/internal/core/ports"
)

func float(f float64) *float64 { return &f }

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter ports.Filter
		want   bson.M
	}{
		{
			name:   "empty filter matches everything",
			filter: ports.Filter{},
			want:   bson.M{},
		},
		{
			name:   "equality",
			filter: ports.Filter{Equals: map[string]any{"email": "user1@gmail.com"}},
			want:   bson.M{"email": "user1@gmail.com"},
		},
		{
			name:   "contains escapes regex metacharacters",
			filter: ports.Filter{Contains: map[string]string{"title": "c++ (v2).*"}},
			want:   bson.M{"title": bson.M{"$regex": `c\+\+ \(v2\)\.\*`, "$options": "i"}},
		},
		{
			name:   "empty contains is ignored",
			filter: ports.Filter{Contains: map[string]string{"title": ""}},
			want:   bson.M{},
		},
		{
			name:   "both range bounds",
			filter: ports.Filter{Ranges: map[string]ports.Range{"price": {Min: float(5), Max: float(20)}}},
			want:   bson.M{"price": bson.M{"$gte": 5.0, "$lte": 20.0}},
		},
		{
			name:   "lower bound only",
			filter: ports.Filter{Ranges: map[string]ports.Range{"price": {Min: float(0)}}},
			want:   bson.M{"price": bson.M{"$gte": 0.0}},
		},
		{
			name:   "unbounded range is dropped",
			filter: ports.Filter{Ranges: map[string]ports.Range{"price": {}}},
			want:   bson.M{},
		},
		{
			name: "combined",
			filter: ports.Filter{
				Equals:   map[string]any{"categoryId": "abc"},
				Contains: map[string]string{"title": "shirt"},
				Ranges:   map[string]ports.Range{"price": {Max: float(10)}},
			},
			want: bson.M{
				"categoryId": "abc",
				"title":      bson.M{"$regex": "shirt", "$options": "i"},
				"price":      bson.M{"$lte": 10.0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildQuery(tt.filter); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("buildQuery() = %v, want %v", got, tt.want)
			}
		})
	}
}
