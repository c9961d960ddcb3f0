package zstdkit

import (
	"fmt"
	"testing"
)

// generateBenchmarkData creates test data for benchmarks
func generateBenchmarkData(size int, compressibility string) []byte {
	data := make([]byte, size)

	switch compressibility {
	case "compressible":
		pattern := []byte("metric=cpu.usage host=web-01 value=0.75 ts=1700000000\n")
		for i := range data {
			data[i] = pattern[i%len(pattern)]
		}
	default:
		// Pseudo-random, effectively incompressible
		for i := range data {
			data[i] = byte((i*31 + i*i*7 + i*i*i*3) % 256)
		}
	}

	return data
}

func BenchmarkCompress(b *testing.B) {
	benchSizes := []int{1024, 4096, 16384, 65536} // 1KB, 4KB, 16KB, 64KB

	for _, compressibility := range []string{"compressible", "incompressible"} {
		for _, size := range benchSizes {
			data := generateBenchmarkData(size, compressibility)
			dst := make([]byte, 0, CompressBound(size))

			b.Run(fmt.Sprintf("%s_%dKB", compressibility, size/1024), func(b *testing.B) {
				b.SetBytes(int64(size))
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					_, err := Compress(dst[:0], data)
					if err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkCompressLevel(b *testing.B) {
	data := generateBenchmarkData(65536, "compressible")
	dst := make([]byte, 0, CompressBound(len(data)))

	for _, level := range []int{MinCompressionLevel, DefaultCompressionLevel, 9, MaxCompressionLevel} {
		b.Run(fmt.Sprintf("level_%d", level), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, err := CompressLevel(dst[:0], data, level)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecompress(b *testing.B) {
	benchSizes := []int{1024, 4096, 16384, 65536}

	for _, size := range benchSizes {
		data := generateBenchmarkData(size, "compressible")
		compressed, err := Compress(nil, data)
		if err != nil {
			b.Fatal(err)
		}
		dst := make([]byte, 0, size)

		b.Run(fmt.Sprintf("%dKB", size/1024), func(b *testing.B) {
			b.SetBytes(int64(size))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, err := Decompress(dst[:0], compressed)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
