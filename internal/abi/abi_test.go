package abi

import (
	"strings"
	"testing"

	"github.com/go-hostgen/hostgen/internal/ir"
	"github.com/go-hostgen/hostgen/wit"
)

func greetFunction() *wit.Function {
	return &wit.Function{
		Name:    "greet",
		Kind:    &wit.Freestanding{},
		Results: []wit.Param{{Type: wit.String{}}},
	}
}

func TestBuildExportCall_StringResult(t *testing.T) {
	res := &wit.Resolve{}
	f := greetFunction()
	m := &ir.InterfaceMethod{
		Name:           f.Name,
		HostMethodName: "Greet",
		WITFunction:    f,
		Return:         &ir.Return{WITType: wit.String{}},
	}

	method, err := BuildExportCall(res, "fn", m)
	if err != nil {
		t.Fatalf("BuildExportCall: %v", err)
	}
	if method.ResultType != "string" {
		t.Fatalf("ResultType = %q, want string", method.ResultType)
	}
	if len(method.Params) != 0 {
		t.Fatalf("Params = %v, want none", method.Params)
	}
	body := strings.Join(method.Body, "\n")
	if !strings.Contains(body, "fn.Call(ctx") {
		t.Fatalf("body does not call the exported function:\n%s", body)
	}
	if !strings.Contains(body, "mod.Memory().Read(") {
		t.Fatalf("body does not read guest memory for the string result:\n%s", body)
	}
	if !strings.Contains(body, "return string(") {
		t.Fatalf("body does not return a lifted string:\n%s", body)
	}
}

func TestBuildImportClosure_NoResult(t *testing.T) {
	res := &wit.Resolve{}
	f := &wit.Function{
		Name:   "log",
		Kind:   &wit.Freestanding{},
		Params: []wit.Param{{Name: "message", Type: wit.String{}}},
	}
	m := &ir.InterfaceMethod{
		Name:           f.Name,
		HostMethodName: "Log",
		WITFunction:    f,
		Parameters: []ir.Parameter{
			{Name: "message", HostName: "message", WITType: wit.String{}},
		},
	}

	closure, err := BuildImportClosure(res, "impl", m)
	if err != nil {
		t.Fatalf("BuildImportClosure: %v", err)
	}
	if len(closure.Params) != 2 {
		t.Fatalf("Params = %v, want 2 flattened words (ptr, len)", closure.Params)
	}
	if closure.ResultType != "" {
		t.Fatalf("ResultType = %q, want none", closure.ResultType)
	}
	body := strings.Join(closure.Body, "\n")
	if !strings.Contains(body, "impl.Log(string(buf0))") {
		t.Fatalf("body does not dispatch to the implementation:\n%s", body)
	}
}

func TestBuildImportClosure_U32Result(t *testing.T) {
	res := &wit.Resolve{}
	f := &wit.Function{
		Name:    "count",
		Kind:    &wit.Freestanding{},
		Results: []wit.Param{{Type: wit.U32{}}},
	}
	m := &ir.InterfaceMethod{
		Name:           f.Name,
		HostMethodName: "Count",
		WITFunction:    f,
		Return:         &ir.Return{WITType: wit.U32{}},
	}

	closure, err := BuildImportClosure(res, "impl", m)
	if err != nil {
		t.Fatalf("BuildImportClosure: %v", err)
	}
	if closure.ResultType != "uint32" {
		t.Fatalf("ResultType = %q, want uint32", closure.ResultType)
	}
	body := strings.Join(closure.Body, "\n")
	if !strings.Contains(body, "result0 := impl.Count()") {
		t.Fatalf("body does not call the zero-arg implementation:\n%s", body)
	}
	if !strings.HasSuffix(strings.TrimSpace(body), "return uint32(result0)") {
		t.Fatalf("body does not return the identity-cast result:\n%s", body)
	}
}

func TestBuildImportClosure_RejectsMultiWordResult(t *testing.T) {
	res := &wit.Resolve{}
	f := &wit.Function{
		Name:    "greet",
		Kind:    &wit.Freestanding{},
		Results: []wit.Param{{Type: wit.String{}}},
	}
	m := &ir.InterfaceMethod{
		Name:           f.Name,
		HostMethodName: "Greet",
		WITFunction:    f,
		Return:         &ir.Return{WITType: wit.String{}},
	}

	if _, err := BuildImportClosure(res, "impl", m); err == nil {
		t.Fatal("expected an error for a guest-imported function with a multi-word flattened result")
	}
}
