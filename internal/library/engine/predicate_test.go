package engine

import (
	"testing"

	"video_library_service/internal/library/domain"

	"github.com/stretchr/testify/assert"
)

func sel(kind domain.FilterKind, id string) domain.Selection {
	return domain.Selection{Kind: kind, ID: id}
}

func TestMatchesSearch(t *testing.T) {
	videos := mixedVideos()

	t.Run("空字串永遠符合", func(t *testing.T) {
		for _, v := range videos {
			assert.True(t, MatchesSearch(v, ""))
			assert.True(t, MatchesSearch(v, "   "))
		}
	})

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"標題不分大小寫", "KATA", []string{"m1", "m2", "m5"}},
		{"描述", "o'sensei's", []string{"m3"}},
		{"分類名稱", "kihon", []string{"m2", "m5"}},
		{"帶級名稱", "green belt", []string{"m2", "m5"}},
		{"示範者名稱", "tanaka", []string{"m1", "m3"}},
		{"找不到", "nunchaku", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := []string{}
			for _, v := range videos {
				if MatchesSearch(v, tc.query) {
					got = append(got, v.ID)
				}
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMatchesFilters(t *testing.T) {
	videos := mixedVideos()

	t.Run("空選取在任何模式都符合", func(t *testing.T) {
		for _, v := range videos {
			assert.True(t, MatchesFilters(v, nil, domain.ModeAnd))
			assert.True(t, MatchesFilters(v, domain.Selections{}, domain.ModeOr))
		}
	})

	tests := []struct {
		name string
		sels domain.Selections
		and  []string
		or   []string
	}{
		{
			name: "同類多選",
			sels: domain.Selections{sel(domain.KindCategory, catKata.ID), sel(domain.KindCategory, catKihon.ID)},
			and:  []string{"m2"},
			or:   []string{"m1", "m2", "m5"},
		},
		{
			name: "跨類別",
			sels: domain.Selections{sel(domain.KindCategory, catKumite.ID), sel(domain.KindPerformer, perfAiko.ID)},
			and:  []string{"m3"},
			or:   []string{"m2", "m3"},
		},
		{
			name: "recorded",
			sels: domain.Selections{sel(domain.KindRecorded, "2023 Spring")},
			and:  []string{"m1", "m4"},
			or:   []string{"m1", "m4"},
		},
		{
			name: "觀看區間",
			sels: domain.Selections{sel(domain.KindViewBucket, "1-9"), sel(domain.KindViewBucket, "100+")},
			and:  []string{},
			or:   []string{"m3", "m4"},
		},
		{
			name: "未知分類永不符合",
			sels: domain.Selections{sel(domain.KindCategory, "cat-unknown")},
			and:  []string{},
			or:   []string{},
		},
		{
			name: "未知區間永不符合",
			sels: domain.Selections{sel(domain.KindViewBucket, "7")},
			and:  []string{},
			or:   []string{},
		},
		{
			name: "帶級加分類",
			sels: domain.Selections{sel(domain.KindCurriculum, beltGreen.ID), sel(domain.KindCategory, catKihon.ID)},
			and:  []string{"m2", "m5"},
			or:   []string{"m2", "m5"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			and, or := []string{}, []string{}
			for _, v := range videos {
				if MatchesFilters(v, tc.sels, domain.ModeAnd) {
					and = append(and, v.ID)
				}
				if MatchesFilters(v, tc.sels, domain.ModeOr) {
					or = append(or, v.ID)
				}
			}
			assert.Equal(t, tc.and, and, "AND")
			assert.Equal(t, tc.or, or, "OR")
		})
	}
}

func TestMatchesFiltersAndSubsetOfOr(t *testing.T) {
	videos := append(mixedVideos(), threeVideos()...)
	pool := domain.Selections{
		sel(domain.KindCategory, catKata.ID),
		sel(domain.KindCategory, catKumite.ID),
		sel(domain.KindCurriculum, beltWhite.ID),
		sel(domain.KindCurriculum, beltGreen.ID),
		sel(domain.KindPerformer, perfSensei.ID),
		sel(domain.KindRecorded, "2023 Spring"),
		sel(domain.KindViewBucket, "0"),
	}

	// 所有非空子集合
	for mask := 1; mask < 1<<len(pool); mask++ {
		var sels domain.Selections
		for i, s := range pool {
			if mask&(1<<i) != 0 {
				sels = append(sels, s)
			}
		}
		for _, v := range videos {
			if MatchesFilters(v, sels, domain.ModeAnd) {
				assert.True(t, MatchesFilters(v, sels, domain.ModeOr), "video %s selections %v", v.ID, sels)
			}
		}
	}
}

func TestMatchesLevel(t *testing.T) {
	videos := mixedVideos()

	t.Run("無上限全部可見", func(t *testing.T) {
		assert.Len(t, ApplyLevel(videos, nil), len(videos))
	})

	t.Run("上限 1", func(t *testing.T) {
		got := ApplyLevel(videos, intPtr(1))
		// m1 只有 yellow、m5 只有 green 被隱藏，沒有帶級的 m3、m4 仍可見
		assert.Equal(t, []string{"m2", "m3", "m4"}, ids(got))
		assert.Equal(t, []domain.Curriculum{beltWhite}, got[0].Curriculums)
	})

	t.Run("不修改原始快照", func(t *testing.T) {
		_ = ApplyLevel(videos, intPtr(1))
		assert.Len(t, videos[1].Curriculums, 2)
	})
}

func TestBucketFor(t *testing.T) {
	cases := map[int]string{0: "0", 1: "1-9", 9: "1-9", 10: "10-49", 49: "10-49", 50: "50-99", 99: "50-99", 100: "100+", 5000: "100+", -3: "0"}
	for count, want := range cases {
		assert.Equal(t, want, BucketFor(count), "count %d", count)
		if count >= 0 {
			assert.True(t, InBucket(count, want))
		}
	}
	assert.False(t, InBucket(5, "5"))
}
