package dict

import (
	"fmt"
	"os"

	kdict "github.com/klauspost/compress/dict"
	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/zstdkit"
)

// FastCoverOptions tunes TrainFastCover.
//
// K, Steps, SplitPoint and Accel follow the fastCover trainer's parameter
// space. The pure-Go trainer honors D (mapped onto its hash width), Level
// and DictID directly; the remaining knobs are accepted as hints and bound
// to the nearest supported behavior.
type FastCoverOptions struct {
	// K is the segment size the trainer scores candidate matches over.
	K uint
	// D is the dmer size; mapped onto the trainer hash width (4-8 bytes).
	D uint
	// Steps is the number of optimization passes, 0 for the default.
	Steps uint
	// NbThreads is the trainer worker count; 0 means single-threaded and
	// deterministic.
	NbThreads int
	// SplitPoint is the train/test split in (0, 1]; 0 means the default.
	SplitPoint float64
	// Accel trades training time for dictionary quality, 1-10; 0 means the
	// default.
	Accel uint
	// ShrinkDict allows the trainer to return a smaller dictionary when the
	// extra bytes stop paying for themselves.
	ShrinkDict bool
	// Level is the compression level the entropy tables are tuned for;
	// 0 means DefaultCompressionLevel.
	Level int
	// DictID is the identifier to embed; 0 auto-assigns one.
	DictID uint32
}

// FinalizeOptions tunes FinalizeDictionary.
type FinalizeOptions struct {
	// Level is the compression level the refined entropy tables are tuned
	// for; 0 means DefaultCompressionLevel.
	Level int
	// NotificationLevel, when positive, routes trainer progress output to
	// stderr.
	NotificationLevel int
	// DictID is the identifier to embed; 0 auto-assigns one.
	DictID uint32
}

// Train builds a dictionary from samples with the engine's default trainer.
//
// samples must be a non-empty list of non-empty byte buffers and capacity
// must be positive. The returned dictionary is at most capacity bytes; the
// trainer may return fewer.
//
// The samples are flattened into a private scratch buffer before training;
// the scratch is zeroed before Train returns, on success and failure alike.
func Train(samples [][]byte, capacity int) ([]byte, error) {
	if err := validateTraining(samples, capacity); err != nil {
		return nil, err
	}

	return runTrainer(samples, kdict.Options{
		MaxDictSize: capacity,
		HashBytes:   defaultHashBytes,
		ZstdLevel:   zstd.EncoderLevelFromZstd(zstdkit.DefaultCompressionLevel),
	})
}

// TrainFastCover builds a dictionary from samples through the
// parameter-rich fastCover trainer variant. See FastCoverOptions for which
// knobs the current engine honors.
//
// Scrubbing semantics match Train.
func TrainFastCover(samples [][]byte, capacity int, o FastCoverOptions) ([]byte, error) {
	if err := validateTraining(samples, capacity); err != nil {
		return nil, err
	}
	if o.SplitPoint < 0 || o.SplitPoint > 1 {
		return nil, fmt.Errorf("%w: split point %v outside (0, 1]", zstdkit.ErrInvalidInput, o.SplitPoint)
	}
	if o.Accel > 10 {
		return nil, fmt.Errorf("%w: acceleration %d outside 1-10", zstdkit.ErrInvalidInput, o.Accel)
	}

	level := o.Level
	if level == 0 {
		level = zstdkit.DefaultCompressionLevel
	}

	return runTrainer(samples, kdict.Options{
		MaxDictSize: capacity,
		HashBytes:   hashBytesFromDmer(o.D),
		ZstdDictID:  o.DictID,
		ZstdLevel:   zstd.EncoderLevelFromZstd(level),
	})
}

// FinalizeDictionary refines a previously trained seed dictionary against
// samples: the seed content joins the sample set so its matches steer the
// refined entropy tables, with an explicit level and target identifier.
//
// Fails with ErrInvalidInput when the seed or the sample set is empty.
// Scrubbing semantics match Train.
func FinalizeDictionary(seed []byte, samples [][]byte, capacity int, o FinalizeOptions) ([]byte, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("%w: empty seed dictionary", zstdkit.ErrInvalidInput)
	}
	if err := validateTraining(samples, capacity); err != nil {
		return nil, err
	}

	level := o.Level
	if level == 0 {
		level = zstdkit.DefaultCompressionLevel
	}

	opts := kdict.Options{
		MaxDictSize: capacity,
		HashBytes:   defaultHashBytes,
		ZstdDictID:  o.DictID,
		ZstdLevel:   zstd.EncoderLevelFromZstd(level),
	}
	if o.NotificationLevel > 0 {
		opts.Output = os.Stderr
	}

	combined := make([][]byte, 0, len(samples)+1)
	combined = append(combined, seed)
	combined = append(combined, samples...)

	return runTrainer(combined, opts)
}

func validateTraining(samples [][]byte, capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: dictionary capacity must be positive", zstdkit.ErrInvalidInput)
	}
	if len(samples) == 0 {
		return fmt.Errorf("%w: no training samples", zstdkit.ErrInvalidInput)
	}
	for i, sample := range samples {
		if len(sample) == 0 {
			return fmt.Errorf("%w: training sample %d is empty", zstdkit.ErrInvalidInput, i)
		}
	}

	return nil
}

// defaultHashBytes is the trainer hash width used when the caller does not
// choose a dmer size. The trainer accepts only 4-8 and has no zero default.
const defaultHashBytes = 6

// hashBytesFromDmer binds the fastCover dmer size onto the trainer's
// supported hash width.
func hashBytesFromDmer(d uint) int {
	switch {
	case d == 0:
		return defaultHashBytes
	case d < 4:
		return 4
	case d > 8:
		return 8
	default:
		return int(d)
	}
}

// runTrainer flattens samples into one scratch buffer plus per-sample views,
// invokes the engine trainer and scrubs the scratch on every exit path.
func runTrainer(samples [][]byte, o kdict.Options) ([]byte, error) {
	views, scratch := flattenSamples(samples)
	defer scrub(scratch)

	built, err := kdict.BuildZstdDict(views, o)
	if err != nil {
		return nil, zstdkit.WrapEngine("train dictionary", err)
	}

	return built, nil
}

// flattenSamples copies samples into a single private buffer and returns
// views over it, one per sample. The trainer never sees caller memory, and
// the single buffer gives the scrub guarantee one release point.
func flattenSamples(samples [][]byte) (views [][]byte, scratch []byte) {
	total := 0
	for _, sample := range samples {
		total += len(sample)
	}

	scratch = make([]byte, 0, total)
	views = make([][]byte, 0, len(samples))
	for _, sample := range samples {
		start := len(scratch)
		scratch = append(scratch, sample...)
		views = append(views, scratch[start:len(scratch):len(scratch)])
	}

	return views, scratch
}

func scrub(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
