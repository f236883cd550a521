package registry

import (
	"testing"

	"github.com/vovakirdan/tui-blast/internal/core"
)

type stubGame struct{ id string }

func (s *stubGame) ID() string {
	return s.id
}

func (s *stubGame) Title() string {
	return "Stub " + s.id
}

func (s *stubGame) Reset(core.RuntimeConfig) {}

func (s *stubGame) Step(core.InputFrame) core.StepResult {
	return core.StepResult{}
}

func (s *stubGame) Render(*core.Screen) {}

func (s *stubGame) State() core.GameState {
	return core.GameState{}
}

func TestRegisterCreateList(t *testing.T) {
	Register("zz_stub_b", func() Game { return &stubGame{id: "zz_stub_b"} })
	Register("zz_stub_a", func() Game { return &stubGame{id: "zz_stub_a"} })

	if !Exists("zz_stub_a") || Exists("zz_missing") {
		t.Fatal("Exists mismatch")
	}

	g, err := Create("zz_stub_a")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.ID() != "zz_stub_a" {
		t.Errorf("ID() = %q", g.ID())
	}
	if _, err := Create("zz_missing"); err == nil {
		t.Error("expected an error for an unknown id")
	}

	var ids []string
	for _, info := range List() {
		ids = append(ids, info.ID)
		if info.ID == "zz_stub_b" && info.Title != "Stub zz_stub_b" {
			t.Errorf("title = %q", info.Title)
		}
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Errorf("List not sorted: %v", ids)
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz_dup", func() Game { return &stubGame{id: "zz_dup"} })
	defer func() {
		if recover() == nil {
			t.Error("expected a panic on duplicate registration")
		}
	}()
	Register("zz_dup", func() Game { return &stubGame{id: "zz_dup"} })
}
