package container_test

import (
	"bytes"
	"errors"
	"testing"

	"crlock/internal/container"
)

func TestPad(t *testing.T) {
	cases := []struct {
		name string
		in   int
		pad  int
	}{
		{name: "empty chunk gets a full pad block", in: 0, pad: 16},
		{name: "one byte", in: 1, pad: 15},
		{name: "one short of a block", in: 15, pad: 1},
		{name: "aligned chunk still gets a full pad block", in: 16, pad: 16},
		{name: "one past a block", in: 17, pad: 15},
		{name: "several blocks plus tail", in: 100, pad: 12},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chunk := bytes.Repeat([]byte{0xAA}, tc.in)

			padded := container.Pad(chunk)

			if len(padded) != tc.in+tc.pad {
				t.Fatalf("Pad() length = %d, want %d", len(padded), tc.in+tc.pad)
			}

			if len(padded)%container.BlockLen != 0 {
				t.Errorf("Pad() length %d not block aligned", len(padded))
			}

			for i := tc.in; i < len(padded); i++ {
				if padded[i] != byte(tc.pad) {
					t.Fatalf("pad byte at %d = %#x, want %#x", i, padded[i], byte(tc.pad))
				}
			}
		})
	}
}

func TestUnpad(t *testing.T) {
	t.Run("round-trips Pad", func(t *testing.T) {
		for _, n := range []int{0, 1, 15, 16, 17, 100} {
			chunk := bytes.Repeat([]byte{0x42}, n)

			got, err := container.Unpad(container.Pad(append([]byte{}, chunk...)))
			if err != nil {
				t.Fatalf("Unpad() error = %v for length %d", err, n)
			}

			if !bytes.Equal(got, chunk) {
				t.Errorf("Unpad() mismatch for length %d", n)
			}
		}
	})

	t.Run("rejects zero pad byte", func(t *testing.T) {
		chunk := make([]byte, 16)

		if _, err := container.Unpad(chunk); !errors.Is(err, container.ErrPadding) {
			t.Errorf("Unpad() error = %v, want ErrPadding", err)
		}
	})

	t.Run("rejects pad byte above block size", func(t *testing.T) {
		chunk := bytes.Repeat([]byte{0x11}, 16)

		if _, err := container.Unpad(chunk); !errors.Is(err, container.ErrPadding) {
			t.Errorf("Unpad() error = %v, want ErrPadding", err)
		}
	})

	t.Run("rejects inconsistent pad bytes", func(t *testing.T) {
		chunk := bytes.Repeat([]byte{0x03}, 16)
		chunk[14] = 0x07

		if _, err := container.Unpad(chunk); !errors.Is(err, container.ErrPadding) {
			t.Errorf("Unpad() error = %v, want ErrPadding", err)
		}
	})

	t.Run("rejects misaligned chunk", func(t *testing.T) {
		chunk := []byte{0x01, 0x01, 0x01}

		if _, err := container.Unpad(chunk); !errors.Is(err, container.ErrPadding) {
			t.Errorf("Unpad() error = %v, want ErrPadding", err)
		}
	})

	t.Run("rejects empty chunk", func(t *testing.T) {
		if _, err := container.Unpad(nil); !errors.Is(err, container.ErrPadding) {
			t.Errorf("Unpad() error = %v, want ErrPadding", err)
		}
	})
}

func TestHeader(t *testing.T) {
	t.Run("marshal and read round-trip", func(t *testing.T) {
		var h container.Header

		for i := range h.IV {
			h.IV[i] = byte(i)
		}

		for i := range h.Tag {
			h.Tag[i] = byte(0xF0 - i)
		}

		buf := h.Marshal()
		if len(buf) != container.HeaderLen {
			t.Fatalf("Marshal() length = %d, want %d", len(buf), container.HeaderLen)
		}

		got, err := container.ReadHeader(bytes.NewReader(buf))
		if err != nil {
			t.Fatalf("ReadHeader() error = %v", err)
		}

		if got != h {
			t.Errorf("ReadHeader() = %+v, want %+v", got, h)
		}
	})

	t.Run("rejects truncated header", func(t *testing.T) {
		buf := make([]byte, container.HeaderLen-1)

		if _, err := container.ReadHeader(bytes.NewReader(buf)); !errors.Is(err, container.ErrHeader) {
			t.Errorf("ReadHeader() error = %v, want ErrHeader", err)
		}
	})
}
