package manifest

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
)

// Splits holds the disjoint train/validation/test subsets. Val may be empty
// depending on the partition policy.
type Splits struct {
	Train []Row
	Val   []Row
	Test  []Row
}

// Partitioner splits a loaded manifest into subsets. Implementations must be
// deterministic for a given seed and must fail rather than silently degrade
// target counts.
type Partitioner interface {
	Partition(rows []Row, seed int64) (Splits, error)
}

// NewPartitioner selects a partition policy by configuration name
func NewPartitioner(datasetType, foldPath string) (Partitioner, error) {
	switch datasetType {
	case "original":
		if foldPath == "" {
			return nil, &ConfigError{Message: `partition policy "original" requires a train fold file`}
		}
		return &OriginalPartitioner{FoldPath: foldPath}, nil
	case "new":
		return &StratifiedPartitioner{}, nil
	default:
		return nil, &ConfigError{Message: fmt.Sprintf("unknown dataset type %q", datasetType)}
	}
}

// OriginalPartitioner reproduces the published protocol: a fold file lists
// the training source ids, everything else is test, and each of the four
// categories is capped by positional truncation. There is no validation
// split.
type OriginalPartitioner struct {
	FoldPath string

	TrainPerCategory int // defaults to 400
	TestPerCategory  int // defaults to 100
}

func (p *OriginalPartitioner) Partition(rows []Row, _ int64) (Splits, error) {
	trainCap := p.TrainPerCategory
	if trainCap == 0 {
		trainCap = 400
	}
	testCap := p.TestPerCategory
	if testCap == 0 {
		testCap = 100
	}

	trainIDs, err := loadFoldIDs(p.FoldPath)
	if err != nil {
		return Splits{}, err
	}

	var train, test []Row
	for _, category := range []string{"A", "B", "C", "D"} {
		trainCount, testCount := 0, 0
		for _, row := range rows {
			if row.Category != category {
				continue
			}
			if trainIDs[row.Source] {
				if trainCount < trainCap {
					train = append(train, row)
					trainCount++
				}
			} else if testCount < testCap {
				test = append(test, row)
				testCount++
			}
		}
	}

	return Splits{Train: train, Test: test}, nil
}

// loadFoldIDs reads the allowlist of training source ids: the first seven
// characters of every line that carries an id
func loadFoldIDs(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Message: "failed to open train fold file", Cause: err}
	}
	defer f.Close()

	ids := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 7 {
			continue
		}
		id := line[:7]
		if strings.Contains(id, "id") {
			ids[id] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ConfigError{Path: path, Message: "failed to read train fold file", Cause: err}
	}
	if len(ids) == 0 {
		return nil, &ConfigError{Path: path, Message: "train fold file contains no ids"}
	}
	return ids, nil
}

// StratifiedPartitioner draws seeded per-category samples: categories A and B
// contribute 350 train and 50 validation rows each; categories C and D
// contribute 175 train and 25 validation rows per method, excluding one
// held-out method per category. The test set is the categorical remainder of
// A plus a fresh 100-row sample of each held-out method. Category B has no
// test slice.
type StratifiedPartitioner struct {
	HeldOutC string // defaults to "faceswap"
	HeldOutD string // defaults to "faceswap-wav2lip"
}

func (p *StratifiedPartitioner) Partition(rows []Row, seed int64) (Splits, error) {
	heldOutC := p.HeldOutC
	if heldOutC == "" {
		heldOutC = "faceswap"
	}
	heldOutD := p.HeldOutD
	if heldOutD == "" {
		heldOutD = "faceswap-wav2lip"
	}

	byCategory := make(map[string][]Row)
	for _, row := range rows {
		byCategory[row.Category] = append(byCategory[row.Category], row)
	}

	var splits Splits

	// Categories A and B: seeded 350-row train sample, next 50 remaining
	// rows in manifest order as validation.
	trainA, restA, err := sampleRows(byCategory["A"], 350, seed, "category A train")
	if err != nil {
		return Splits{}, err
	}
	if len(restA) < 50 {
		return Splits{}, &ConfigError{Message: fmt.Sprintf("category A has %d rows left for validation, need 50", len(restA))}
	}
	trainB, restB, err := sampleRows(byCategory["B"], 350, seed, "category B train")
	if err != nil {
		return Splits{}, err
	}
	if len(restB) < 50 {
		return Splits{}, &ConfigError{Message: fmt.Sprintf("category B has %d rows left for validation, need 50", len(restB))}
	}

	splits.Train = append(splits.Train, trainA...)
	splits.Train = append(splits.Train, trainB...)

	valA := restA[:50]
	testA := restA[50:]
	valB := restB[:50]

	// Categories C and D: per-method stratification over the kept methods.
	trainC, valC, err := sampleByMethod(byCategory["C"], heldOutC, 175, 25, seed)
	if err != nil {
		return Splits{}, err
	}
	trainD, valD, err := sampleByMethod(byCategory["D"], heldOutD, 175, 25, seed)
	if err != nil {
		return Splits{}, err
	}

	splits.Train = append(splits.Train, trainC...)
	splits.Train = append(splits.Train, trainD...)

	splits.Val = append(splits.Val, valA...)
	splits.Val = append(splits.Val, valB...)
	splits.Val = append(splits.Val, valC...)
	splits.Val = append(splits.Val, valD...)

	// Test: the unbounded categorical remainder of A, plus fresh samples of
	// the held-out manipulation methods.
	testC, _, err := sampleRows(filterMethod(byCategory["C"], heldOutC), 100, seed, "held-out C test")
	if err != nil {
		return Splits{}, err
	}
	testD, _, err := sampleRows(filterMethod(byCategory["D"], heldOutD), 100, seed, "held-out D test")
	if err != nil {
		return Splits{}, err
	}

	splits.Test = append(splits.Test, testA...)
	splits.Test = append(splits.Test, testC...)
	splits.Test = append(splits.Test, testD...)

	return splits, nil
}

// sampleRows draws n rows without replacement using a generator seeded fresh
// for this draw; the remainder keeps manifest order
func sampleRows(rows []Row, n int, seed int64, what string) (picked, rest []Row, err error) {
	if len(rows) < n {
		return nil, nil, &ConfigError{Message: fmt.Sprintf("%s: need %d rows, manifest has %d", what, n, len(rows))}
	}

	rng := rand.New(rand.NewSource(seed))
	chosen := make(map[int]bool, n)
	for _, idx := range rng.Perm(len(rows))[:n] {
		chosen[idx] = true
	}

	picked = make([]Row, 0, n)
	rest = make([]Row, 0, len(rows)-n)
	for i, row := range rows {
		if chosen[i] {
			picked = append(picked, row)
		} else {
			rest = append(rest, row)
		}
	}
	return picked, rest, nil
}

// sampleByMethod stratifies one category over its methods, excluding the
// held-out method entirely
func sampleByMethod(rows []Row, heldOut string, trainN, valN int, seed int64) (train, val []Row, err error) {
	byMethod := make(map[string][]Row)
	for _, row := range rows {
		if row.Method == heldOut {
			continue
		}
		byMethod[row.Method] = append(byMethod[row.Method], row)
	}

	methods := make([]string, 0, len(byMethod))
	for m := range byMethod {
		methods = append(methods, m)
	}
	sort.Strings(methods)

	for _, method := range methods {
		picked, rest, err := sampleRows(byMethod[method], trainN, seed, fmt.Sprintf("method %s train", method))
		if err != nil {
			return nil, nil, err
		}
		valPicked, _, err := sampleRows(rest, valN, seed, fmt.Sprintf("method %s val", method))
		if err != nil {
			return nil, nil, err
		}
		train = append(train, picked...)
		val = append(val, valPicked...)
	}
	return train, val, nil
}

func filterMethod(rows []Row, method string) []Row {
	var out []Row
	for _, row := range rows {
		if row.Method == method {
			out = append(out, row)
		}
	}
	return out
}
