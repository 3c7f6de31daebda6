package modules

import (
	"errors"
	"reflect"
	"testing"
)

type app struct {
	installed []string
}

func record(name string) Module[*app] {
	return Func(name, func(a *app) error {
		a.installed = append(a.installed, name)
		return nil
	})
}

func TestInstallAllInOrder(t *testing.T) {
	r := NewRegistry[*app]()
	r.MustRegister(record("router"))
	r.MustRegister(record("i18n"))
	r.MustRegister(record("store"))

	a := &app{}
	if err := r.InstallAll(a); err != nil {
		t.Fatalf("InstallAll() error: %v", err)
	}

	want := []string{"router", "i18n", "store"}
	if !reflect.DeepEqual(a.installed, want) {
		t.Errorf("installed %v, want %v", a.installed, want)
	}
	if !reflect.DeepEqual(r.Names(), want) {
		t.Errorf("Names() = %v, want %v", r.Names(), want)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry[*app]()
	if err := r.Register(record("store")); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(record("store")); !errors.Is(err, ErrDuplicateModule) {
		t.Errorf("expected ErrDuplicateModule, got %v", err)
	}
	if err := r.Register(record("")); err == nil {
		t.Error("expected error for empty name")
	}
	if err := r.Register(nil); err == nil {
		t.Error("expected error for nil module")
	}
}

func TestMustRegisterPanics(t *testing.T) {
	r := NewRegistry[*app]()
	r.MustRegister(record("a"))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate")
		}
	}()
	r.MustRegister(record("a"))
}

func TestInstallAllStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry[*app]()
	r.MustRegister(record("first"))
	r.MustRegister(Func("broken", func(*app) error { return boom }))
	r.MustRegister(record("never"))

	a := &app{}
	err := r.InstallAll(a)
	if !errors.Is(err, ErrInstall) || !errors.Is(err, boom) {
		t.Errorf("expected ErrInstall wrapping boom, got %v", err)
	}
	if !reflect.DeepEqual(a.installed, []string{"first"}) {
		t.Errorf("installed %v", a.installed)
	}
}
