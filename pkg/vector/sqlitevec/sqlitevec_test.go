package sqlitevec_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NimanthaSupun/localrag/pkg/chunker"
	"github.com/NimanthaSupun/localrag/pkg/logger"
	"github.com/NimanthaSupun/localrag/pkg/vector"
	"github.com/NimanthaSupun/localrag/pkg/vector/sqlitevec"
)

func TestSQLiteVecStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SQLite Vec Store Suite")
}

var _ = Describe("Store", func() {
	var (
		ctx   context.Context
		store *sqlitevec.Store
	)

	point := func(id string, vec []float32, text string) vector.Point {
		return vector.Point{
			ID:     id,
			Vector: vec,
			Payload: chunker.Chunk{
				Text:        text,
				SourceFile:  "doc.txt",
				ChunkIndex:  0,
				TotalChunks: 1,
				FileType:    "text/plain",
			},
		}
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		store, err = sqlitevec.NewStore(sqlitevec.Config{
			DBPath:     ":memory:",
			Dimensions: 3,
		}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(store.EnsureCollection(ctx)).To(Succeed())
	})

	AfterEach(func() {
		if store != nil {
			store.Close()
		}
	})

	Describe("NewStore", func() {
		It("requires a database path", func() {
			_, err := sqlitevec.NewStore(sqlitevec.Config{Dimensions: 3}, logger.Nop())
			Expect(err).To(HaveOccurred())
		})

		It("requires a dimension", func() {
			_, err := sqlitevec.NewStore(sqlitevec.Config{DBPath: ":memory:"}, logger.Nop())
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("EnsureCollection", func() {
		It("is idempotent", func() {
			Expect(store.EnsureCollection(ctx)).To(Succeed())
			Expect(store.EnsureCollection(ctx)).To(Succeed())
		})
	})

	Describe("Count", func() {
		It("reports an untouched database as empty", func() {
			fresh, err := sqlitevec.NewStore(sqlitevec.Config{
				DBPath:     ":memory:",
				Dimensions: 3,
			}, logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			defer fresh.Close()

			count, err := fresh.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("propagates errors other than a missing table", func() {
			broken, err := sqlitevec.NewStore(sqlitevec.Config{
				DBPath:     ":memory:",
				Dimensions: 3,
			}, logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(broken.Close()).To(Succeed())

			_, err = broken.Count(ctx)
			Expect(err).To(MatchError(vector.ErrStore))
		})
	})

	Describe("Upsert and Search", func() {
		It("stores points and returns the closest match first", func() {
			Expect(store.Upsert(ctx, []vector.Point{
				point("p1", []float32{1, 0, 0}, "about cats"),
				point("p2", []float32{0, 1, 0}, "about dogs"),
				point("p3", []float32{0.9, 0.1, 0}, "mostly cats"),
			})).To(Succeed())

			results, err := store.Search(ctx, []float32{1, 0, 0}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].Payload.Text).To(Equal("about cats"))
			Expect(results[1].Payload.Text).To(Equal("mostly cats"))
			Expect(results[0].Score).To(BeNumerically(">=", results[1].Score))
		})

		It("returns the stored payload fields", func() {
			p := point("p1", []float32{1, 2, 3}, "chunk body")
			p.Payload.UploadTimestamp = "2025-06-01T12:00:00Z"
			Expect(store.Upsert(ctx, []vector.Point{p})).To(Succeed())

			results, err := store.Search(ctx, []float32{1, 2, 3}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Payload).To(Equal(p.Payload))
		})

		It("overwrites a point with the same ID", func() {
			Expect(store.Upsert(ctx, []vector.Point{
				point("p1", []float32{1, 0, 0}, "old text"),
			})).To(Succeed())
			Expect(store.Upsert(ctx, []vector.Point{
				point("p1", []float32{0, 1, 0}, "new text"),
			})).To(Succeed())

			count, err := store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(uint64(1)))

			results, err := store.Search(ctx, []float32{0, 1, 0}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Payload.Text).To(Equal("new text"))
		})

		It("rejects a batch with a mismatched dimension before writing", func() {
			err := store.Upsert(ctx, []vector.Point{
				point("p1", []float32{1, 0, 0}, "fine"),
				point("p2", []float32{1, 0}, "short vector"),
			})
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))

			count, err := store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("clamps the result count to what is stored", func() {
			Expect(store.Upsert(ctx, []vector.Point{
				point("p1", []float32{1, 0, 0}, "only one"),
			})).To(Succeed())

			results, err := store.Search(ctx, []float32{1, 0, 0}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
		})

		It("returns nothing from an empty collection", func() {
			results, err := store.Search(ctx, []float32{1, 0, 0}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})
	})

	Describe("Reset", func() {
		It("empties the collection and stays usable", func() {
			Expect(store.Upsert(ctx, []vector.Point{
				point("p1", []float32{1, 0, 0}, "gone soon"),
			})).To(Succeed())

			Expect(store.Reset(ctx)).To(Succeed())

			count, err := store.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())

			Expect(store.Upsert(ctx, []vector.Point{
				point("p2", []float32{0, 1, 0}, "fresh start"),
			})).To(Succeed())
		})

		It("is idempotent", func() {
			Expect(store.Reset(ctx)).To(Succeed())
			Expect(store.Reset(ctx)).To(Succeed())
		})
	})

	Describe("Ping", func() {
		It("succeeds on an open database", func() {
			Expect(store.Ping(ctx)).To(Succeed())
		})
	})
})
