// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fileops

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/tombee/filetools/internal/fileops"

// Handler runs one operation against a raw parameter bag.
type Handler func(ctx context.Context, params map[string]any) *Envelope

// Operation pairs a tool description with its handler.
type Operation struct {
	Spec    ToolSpec
	Handler Handler
}

// Registry maps operation names to handlers. It is built once at startup and
// read-only afterwards.
type Registry struct {
	ops    map[string]Operation
	order  []string
	audit  AuditLogger
	tracer trace.Tracer
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithAuditLogger sets the audit logger used for every call.
func WithAuditLogger(audit AuditLogger) RegistryOption {
	return func(r *Registry) {
		if audit != nil {
			r.audit = audit
		}
	}
}

// NewRegistry registers every file tool backed by ops.
func NewRegistry(ops *Operations, opts ...RegistryOption) *Registry {
	r := &Registry{
		ops:    make(map[string]Operation),
		audit:  &NoopAuditLogger{},
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.register(listFilesSpec, ops.ListFiles)
	r.register(searchFileSpec, ops.SearchFile)
	r.register(readFileContentSpec, ops.ReadFileContent)
	r.register(readFileAttributesSpec, ops.ReadFileAttributes)
	r.register(createFileSpec, ops.CreateFile)
	r.register(renameFileSpec, ops.RenameFile)
	r.register(createFolderSpec, ops.CreateFolder)
	r.register(testingSpec, ops.Ping)

	return r
}

func (r *Registry) register(spec ToolSpec, handler Handler) {
	if _, exists := r.ops[spec.Name]; exists {
		panic(fmt.Sprintf("fileops: operation %q registered twice", spec.Name))
	}
	r.ops[spec.Name] = Operation{Spec: spec, Handler: handler}
	r.order = append(r.order, spec.Name)
}

// Names returns the registered operation names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Specs returns the tool descriptions in registration order.
func (r *Registry) Specs() []ToolSpec {
	specs := make([]ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.ops[name].Spec)
	}
	return specs
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// Execute runs the named operation. It returns an envelope for every input; an
// unknown name yields a validation failure.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) *Envelope {
	op, ok := r.ops[name]
	if !ok {
		return Failure(ErrorKindValidation, fmt.Sprintf("Unknown operation: %s", name),
			FieldError{Field: "operation", Reason: fmt.Sprintf("unknown operation %q", name)})
	}
	return r.operationWrapper(ctx, name, params, op.Handler)
}

// operationWrapper records metrics, an audit entry and a trace span around a handler.
func (r *Registry) operationWrapper(ctx context.Context, name string, params map[string]any, handler Handler) *Envelope {
	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = WithRequestID(ctx, requestID)
	}

	ctx, span := r.tracer.Start(ctx, "fileops."+name,
		trace.WithAttributes(
			attribute.String("filetools.operation", name),
			attribute.String("filetools.request_id", requestID),
		))
	defer span.End()

	start := time.Now()
	env := handler(ctx, params)
	duration := time.Since(start)

	recordMetrics(name, duration.Seconds(), env)

	entry := AuditEntry{
		Timestamp: start,
		Operation: name,
		RequestID: requestID,
		Path:      auditPath(params),
		Result:    "success",
		Duration:  duration,
	}
	if env.Success {
		span.SetStatus(codes.Ok, "")
	} else {
		entry.Result = "error"
		entry.Code = env.Code
		entry.Error = env.Message
		span.SetAttributes(attribute.String("filetools.error_code", string(env.Code)))
		span.SetStatus(codes.Error, env.Message)
	}
	r.audit.Log(entry)

	return env
}

// auditPath picks the path parameter of a call for the audit trail.
func auditPath(params map[string]any) string {
	for _, key := range []string{"file_path", "dir_path"} {
		if s, ok := params[key].(string); ok {
			return s
		}
	}
	return ""
}

type requestIDKey struct{}

// WithRequestID returns a context carrying id as the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID carried by ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
