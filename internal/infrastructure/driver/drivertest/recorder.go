// Package drivertest provides a scripted driver.ITransactionalDB for repository tests.
package drivertest

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/pot-code/coursecert/internal/infrastructure/driver"
)

// Call one recorded driver call, Query and Args are empty for transaction control
type Call struct {
	Method string
	Query  string
	Args   []interface{}
}

// Response scripted outcome of one Exec or Query call
type Response struct {
	Rows [][]interface{}
	Err  error
}

// Recorder records every call and answers Exec and Query from a queue of responses.
// Once the queue is drained calls succeed with no rows.
type Recorder struct {
	BeginErr  error
	CommitErr error

	dialect   driver.Dialect
	mu        sync.Mutex
	calls     []Call
	responses []Response
}

var _ driver.ITransactionalDB = &Recorder{}

func NewRecorder(dialect driver.Dialect) *Recorder {
	return &Recorder{dialect: dialect}
}

// Respond queue responses for the next Exec or Query calls
func (r *Recorder) Respond(responses ...Response) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, responses...)
	return r
}

// Calls recorded calls in order
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Methods method names of the recorded calls
func (r *Recorder) Methods() []string {
	var methods []string
	for _, c := range r.Calls() {
		methods = append(methods, c.Method)
	}
	return methods
}

func (r *Recorder) record(method, query string, args []interface{}) Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Method: method, Query: query, Args: args})
	if query == "" || len(r.responses) == 0 {
		return Response{}
	}
	resp := r.responses[0]
	r.responses = r.responses[1:]
	return resp
}

func (r *Recorder) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	resp := r.record("Exec", query, args)
	if resp.Err != nil {
		return nil, resp.Err
	}
	return result(len(resp.Rows)), nil
}

func (r *Recorder) QueryContext(ctx context.Context, query string, args ...interface{}) (driver.ISQLRows, error) {
	resp := r.record("Query", query, args)
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &rows{data: resp.Rows}, nil
}

// BeginTx the transaction shares this recorder
func (r *Recorder) BeginTx(ctx context.Context, opts *driver.TxOptions) (driver.ITransactionalDB, error) {
	r.record("BeginTx", "", nil)
	if r.BeginErr != nil {
		return nil, r.BeginErr
	}
	return r, nil
}

func (r *Recorder) Commit(ctx context.Context) error {
	r.record("Commit", "", nil)
	return r.CommitErr
}

func (r *Recorder) Rollback(ctx context.Context) error {
	r.record("Rollback", "", nil)
	return nil
}

func (r *Recorder) Close(ctx context.Context) error {
	return nil
}

func (r *Recorder) Ping() error {
	return nil
}

func (r *Recorder) Dialect() driver.Dialect {
	return r.dialect
}

var dollarPattern = regexp.MustCompile(`\$([0-9]+)`)

// Placeholders number of arguments query expects once sent through a connection of dialect.
// Postgres reuses $N so the highest N counts, mysql rewrites every $N to ? positionally.
func Placeholders(dialect driver.Dialect, query string) int {
	if dialect == driver.DialectMySQL {
		return strings.Count(query, "?") + len(dollarPattern.FindAllString(query, -1))
	}
	max := 0
	for _, m := range dollarPattern.FindAllStringSubmatch(query, -1) {
		if n, _ := strconv.Atoi(m[1]); n > max {
			max = n
		}
	}
	return max
}

type result int64

func (r result) LastInsertId() (int64, error) {
	return 0, nil
}

func (r result) RowsAffected() (int64, error) {
	return int64(r), nil
}

type rows struct {
	data [][]interface{}
	pos  int
}

func (r *rows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

// Scan assign column values to dest, nil columns zero the destination
func (r *rows) Scan(dest ...interface{}) error {
	if r.pos == 0 {
		return fmt.Errorf("drivertest: Scan called before Next")
	}
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("drivertest: row has %d columns, Scan got %d destinations", len(row), len(dest))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Ptr || dv.IsNil() {
			return fmt.Errorf("drivertest: destination %d is not a pointer", i)
		}
		target := dv.Elem()
		if row[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(row[i])
		if !v.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("drivertest: column %d is %s, destination is %s", i, v.Type(), target.Type())
		}
		target.Set(v)
	}
	return nil
}

func (r *rows) Close() error {
	return nil
}

func (r *rows) Err() error {
	return nil
}
