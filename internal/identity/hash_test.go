package identity

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rom.bin")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestComputeIsReentrant(t *testing.T) {
	path := writeTemp(t, "deterministic rom content")

	first, err := Compute(path, AlgorithmCRC32, 0)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	second, err := Compute(path, AlgorithmCRC32, 0)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if first.Hash != second.Hash || first.Hash == "" {
		t.Fatalf("expected identical non-empty hashes, got %q and %q", first.Hash, second.Hash)
	}
}

func TestComputeDiffersByAlgorithm(t *testing.T) {
	path := writeTemp(t, "some rom bytes")

	crc, err := Compute(path, AlgorithmCRC32, 0)
	if err != nil {
		t.Fatalf("Compute CRC32: %v", err)
	}
	md5sum, err := Compute(path, AlgorithmMD5, 0)
	if err != nil {
		t.Fatalf("Compute MD5: %v", err)
	}
	sha1sum, err := Compute(path, AlgorithmSHA1, 0)
	if err != nil {
		t.Fatalf("Compute SHA1: %v", err)
	}
	if crc.Hash == md5sum.Hash || md5sum.Hash == sha1sum.Hash {
		t.Fatalf("expected distinct hashes per algorithm, got crc=%q md5=%q sha1=%q", crc.Hash, md5sum.Hash, sha1sum.Hash)
	}
}

func TestComputeHashIsUppercaseHex(t *testing.T) {
	path := writeTemp(t, "hex check")
	got, err := Compute(path, AlgorithmCRC32, 0)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	for _, r := range got.Hash {
		isHexDigit := (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')
		if !isHexDigit {
			t.Fatalf("hash %q contains non-uppercase-hex character %q", got.Hash, r)
		}
	}
}

func TestComputeSkipsHashOverSizeCap(t *testing.T) {
	path := writeTemp(t, "this file is larger than the configured cap")
	got, err := Compute(path, AlgorithmCRC32, 4)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got.Hash != "" {
		t.Fatalf("expected empty hash when file exceeds size cap, got %q", got.Hash)
	}
	if got.SizeBytes == 0 {
		t.Fatalf("expected SizeBytes to still be populated")
	}
}

func TestParseAlgorithmNormalizesCase(t *testing.T) {
	got, err := ParseAlgorithm("md5")
	if err != nil {
		t.Fatalf("ParseAlgorithm: %v", err)
	}
	if got != AlgorithmMD5 {
		t.Fatalf("ParseAlgorithm = %q, want MD5", got)
	}
}

func TestParseAlgorithmRejectsUnknown(t *testing.T) {
	if _, err := ParseAlgorithm("blake3"); err == nil {
		t.Fatalf("expected error for unrecognized algorithm")
	}
}
