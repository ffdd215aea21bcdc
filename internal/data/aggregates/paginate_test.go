package aggregates

import (
	"testing"

	domainagg "github.com/yungbote/workspace-backend/internal/domain/aggregates"
)

func TestWindow(t *testing.T) {
	cases := []struct {
		count      int64
		page, size int
		skip       int
		code       domainagg.ErrorCode
	}{
		{count: 10, page: 0, size: 10, skip: 0},
		{count: 10, page: 1, size: 10, skip: 10},
		{count: 10, page: 2, size: 10, code: domainagg.CodeArgument},
		{count: 25, page: 2, size: 10, skip: 20},
		{count: 25, page: 0, size: 0, code: domainagg.CodeArgument},
		{count: 25, page: -1, size: 5, code: domainagg.CodeArgument},
		{count: 3, page: 1 << 62, size: 4, code: domainagg.CodeArgument},
		{count: 3, page: 4, size: 1 << 62, code: domainagg.CodeArgument},
		{count: 3, page: 0, size: 1 << 62, skip: 0},
	}
	for _, tc := range cases {
		skip, err := window("query", tc.count, tc.page, tc.size)
		if tc.code != "" {
			if !domainagg.IsCode(err, tc.code) {
				t.Fatalf("count=%d page=%d size=%d: expected %s, got %v", tc.count, tc.page, tc.size, tc.code, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("count=%d page=%d size=%d: %v", tc.count, tc.page, tc.size, err)
		}
		if skip != tc.skip {
			t.Fatalf("count=%d page=%d size=%d: skip want=%d got=%d", tc.count, tc.page, tc.size, tc.skip, skip)
		}
	}
}
