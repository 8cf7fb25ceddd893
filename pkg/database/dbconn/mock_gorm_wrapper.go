package dbconn

import (
	"errors"
	"reflect"
)

type MockGormWrapper interface {
	GormWrapper
	Created() []interface{}
	Chain() *QueryChain
	SetError(error) MockGormWrapper
	SetResult(interface{}) MockGormWrapper
	Closed() bool
}

type mockGormWrapper struct {
	error    error
	created  []interface{}
	chain    *QueryChain
	result   interface{}
	migrated []interface{}
	closed   bool
}

// QueryChain records the clauses a query was built from.
type QueryChain struct {
	Where *WhereQuery
	Order interface{}
	Limit int
	Conds []interface{}
}

type WhereQuery struct {
	Query interface{}
	Args  []interface{}
}

func Mock() MockGormWrapper {
	return &mockGormWrapper{}
}

func (w *mockGormWrapper) Created() []interface{} {
	return w.created
}

func (w *mockGormWrapper) Chain() *QueryChain {
	return w.chain
}

func (w *mockGormWrapper) SetError(e error) MockGormWrapper {
	w.error = e
	return w
}

func (w *mockGormWrapper) SetResult(r interface{}) MockGormWrapper {
	w.result = r
	return w
}

func (w *mockGormWrapper) Closed() bool {
	return w.closed
}

func (w *mockGormWrapper) Error() error {
	return w.error
}

func (w *mockGormWrapper) AutoMigrate(dst ...interface{}) error {
	w.migrated = append(w.migrated, dst...)
	return w.error
}

func (w *mockGormWrapper) Create(value interface{}) GormWrapper {
	if w.error == nil {
		w.created = append(w.created, value)
	}
	return w
}

func (w *mockGormWrapper) ensureChain() *QueryChain {
	if w.chain == nil {
		w.chain = &QueryChain{}
	}
	return w.chain
}

func (w *mockGormWrapper) Where(query interface{}, args ...interface{}) GormWrapper {
	w.ensureChain().Where = &WhereQuery{Query: query, Args: args}
	return w
}

func (w *mockGormWrapper) Order(value interface{}) GormWrapper {
	w.ensureChain().Order = value
	return w
}

func (w *mockGormWrapper) Limit(limit int) GormWrapper {
	w.ensureChain().Limit = limit
	return w
}

func (w *mockGormWrapper) Find(dest interface{}, conds ...interface{}) GormWrapper {
	return w.fill(dest, conds)
}

func (w *mockGormWrapper) First(dest interface{}, conds ...interface{}) GormWrapper {
	if w.chain == nil {
		w.error = errors.New("need to call query first")
		return w
	}
	return w.fill(dest, conds)
}

func (w *mockGormWrapper) fill(dest interface{}, conds []interface{}) GormWrapper {
	w.ensureChain().Conds = conds
	if w.error != nil || w.result == nil {
		return w
	}
	w.error = Replace(dest, w.result)
	return w
}

func (w *mockGormWrapper) Close() error {
	w.closed = true
	return nil
}

func Replace(i, v interface{}) error {
	val := reflect.ValueOf(i)
	if val.Kind() != reflect.Ptr {
		return errors.New("not a pointer")
	}

	val = val.Elem()

	newVal := reflect.Indirect(reflect.ValueOf(v))

	if !newVal.Type().AssignableTo(val.Type()) {
		return errors.New("mismatched types")
	}

	val.Set(newVal)
	return nil
}
