package cache

import "testing"

func TestBuildKeyPrefersHashOverFilename(t *testing.T) {
	k1 := BuildKey("snes", "DEADBEEF", "World Explorer.zip", 1024)
	k2 := BuildKey("snes", "deadbeef", "Different Name.zip", 2048)
	if k1 != k2 {
		t.Fatalf("keys with the same hash should match regardless of filename: %q vs %q", k1, k2)
	}
}

func TestBuildKeyFallsBackToNameAndSize(t *testing.T) {
	k1 := BuildKey("snes", "", "World Explorer.zip", 1024)
	k2 := BuildKey("snes", "", "World Explorer.zip", 2048)
	if k1 == k2 {
		t.Fatal("differing sizes with no hash should produce distinct keys")
	}
}

func TestBuildKeyIsPlatformScoped(t *testing.T) {
	k1 := BuildKey("snes", "DEADBEEF", "", 0)
	k2 := BuildKey("genesis", "DEADBEEF", "", 0)
	if k1 == k2 {
		t.Fatal("same hash on different platforms should produce distinct keys")
	}
}
