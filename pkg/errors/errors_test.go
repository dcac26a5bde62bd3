package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("ThermalTime", "Predict")

	want := "phenogo: ThermalTime: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFitted *NotFittedError
	if !As(err, &notFitted) {
		t.Fatal("error should be castable to *NotFittedError")
	}
	if notFitted.ModelName != "ThermalTime" {
		t.Errorf("ModelName = %v, want ThermalTime", notFitted.ModelName)
	}

	// Constructors attach a stack trace.
	formatted := fmt.Sprintf("%+v", err)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("expected stack trace to contain the test file name")
	}
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("t1", "unknown parameter", 42)

	want := "phenogo: invalid configuration for parameter 't1': unknown parameter (got: 42)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var cfgErr *ConfigurationError
	if !As(err, &cfgErr) {
		t.Fatal("error should be castable to *ConfigurationError")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("Align", "observation DOY contains NaN", "a/2001")

	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Fatal("error should be castable to *ValidationError")
	}
	if valErr.Op != "Align" {
		t.Errorf("Op = %v, want Align", valErr.Op)
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("Error() = %v, should mention validation", err.Error())
	}
}

func TestDataFormatError(t *testing.T) {
	t.Run("with row", func(t *testing.T) {
		err := NewDataFormatError("observations", "doy", 3, "cannot parse as number: early")
		if !strings.Contains(err.Error(), "at row 3") {
			t.Errorf("Error() = %v, should name the row", err.Error())
		}
	})

	t.Run("without row", func(t *testing.T) {
		err := NewDataFormatError("observations", "doy", 0, "required column is missing")
		if strings.Contains(err.Error(), "at row") {
			t.Errorf("Error() = %v, should not name a row", err.Error())
		}
	})
}

func TestDimensionError(t *testing.T) {
	err := NewDimensionError("MSE", 5, 3)

	want := "phenogo: MSE: length mismatch. Expected 5, got 3"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestWarningHandler(t *testing.T) {
	var captured []error
	SetWarningHandler(func(w error) { captured = append(captured, w) })
	defer SetWarningHandler(nil)

	warning := NewConvergenceWarning("DE", 500, 2.5)
	Warn(warning)

	if len(captured) != 1 {
		t.Fatalf("expected 1 captured warning, got %d", len(captured))
	}
	if captured[0] != warning {
		t.Error("handler should receive the warning unchanged")
	}
	if !strings.Contains(warning.Error(), "did not converge after 500 evaluations") {
		t.Errorf("Error() = %v", warning.Error())
	}
}

func TestWarningHandlerSilencing(t *testing.T) {
	called := false
	SetWarningHandler(func(w error) { called = true })
	SetWarningHandler(func(w error) {})
	defer SetWarningHandler(nil)

	Warn(NewConvergenceWarning("DE", 1, 1))
	if called {
		t.Error("replaced handler must not be invoked")
	}
}

func TestDroppedDataWarning(t *testing.T) {
	w := NewDroppedDataWarning(2, 10, []string{"a/2001", "b/2002"})
	msg := w.Error()
	if !strings.Contains(msg, "dropped 2 of 10 observations") {
		t.Errorf("Error() = %v", msg)
	}
	if !strings.Contains(msg, "a/2001") {
		t.Errorf("Error() = %v, should list missing site/years", msg)
	}
}

func TestRecover(t *testing.T) {
	t.Run("converts panic to error", func(t *testing.T) {
		fn := func() (err error) {
			defer Recover(&err, "Model.Fit")
			panic("matrix dimension mismatch")
		}

		err := fn()
		if err == nil {
			t.Fatal("expected an error from the recovered panic")
		}

		var panicErr *PanicError
		if !As(err, &panicErr) {
			t.Fatalf("expected *PanicError, got %T", err)
		}
		if panicErr.Operation != "Model.Fit" {
			t.Errorf("Operation = %v, want Model.Fit", panicErr.Operation)
		}
		if panicErr.StackTrace == "" {
			t.Error("expected a captured stack trace")
		}
	})

	t.Run("no panic leaves error untouched", func(t *testing.T) {
		fn := func() (err error) {
			defer Recover(&err, "Model.Fit")
			return nil
		}
		if err := fn(); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})
}

func TestSafeExecute(t *testing.T) {
	err := SafeExecute("risky", func() error {
		panic("boom")
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "panic in risky") {
		t.Errorf("Error() = %v", err.Error())
	}

	if err := SafeExecute("safe", func() error { return nil }); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestSentinels(t *testing.T) {
	err := Wrap(ErrNothingToFit, "ThermalTime")
	if !Is(err, ErrNothingToFit) {
		t.Error("wrapped sentinel should still match with Is")
	}
	if !strings.Contains(err.Error(), "ThermalTime") {
		t.Errorf("Error() = %v, should carry the wrap message", err.Error())
	}
}
