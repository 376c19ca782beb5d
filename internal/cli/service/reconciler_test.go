package service

import (
	"CardWallet/internal/cli/model"
	"CardWallet/internal/cli/repo"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReconciler(a *mockAPI, st *memStore) (*Reconciler, *Session) {
	sess := authedSession(a)
	return NewReconciler(sess, a, st, 0, nil), sess
}

func named(name string) interface{} {
	return mock.MatchedBy(func(c model.Card) bool { return c.Name == name && c.ID == 0 })
}

// Сценарий A: на сервере нет пары → один create, локальное хранилище очищено.
func TestReconcile_NewCardUploaded(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	local := bizCard("Jane Doe", "Acme")
	local.ID = 1700000000000
	putLocal(t, st, local)
	a.On("CreateCard", mock.Anything, "tok", int64(7), named("Jane Doe")).Return(model.Card{ID: 50}, nil).Once()

	r, _ := newReconciler(a, st)
	res, err := r.Reconcile(context.Background(), []model.Card{bizCard("Someone", "Else")})
	require.NoError(t, err)

	assert.Equal(t, SyncResult{New: 1, Uploaded: 1}, res)
	assert.False(t, st.has(repo.UnauthCardsKey))
	assert.Equal(t, model.SyncSuccess, r.Outcome())
	assert.Equal(t, PhaseIdle, r.State().Phase)
	a.AssertNumberOfCalls(t, "CreateCard", 1)
}

// Сценарий B: полностью совпадающая карточка отбрасывается без вызовов API.
func TestReconcile_IdenticalDropped(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	local := bizCard("Jane Doe", "Acme")
	local.ID = 123
	local.Logo = "local-logo"
	putLocal(t, st, local)

	server := bizCard("Jane Doe", "Acme")
	server.ID, server.UserID = 9, 7

	r, _ := newReconciler(a, st)
	res, err := r.Reconcile(context.Background(), []model.Card{server})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Dropped)
	assert.False(t, st.has(repo.UnauthCardsKey))
	assert.Equal(t, model.SyncNone, r.Outcome())
	a.AssertNotCalled(t, "CreateCard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Сценарий C: совпадение по имени/компании, разный email → конфликт, выбор local → один create.
func TestReconcile_ConflictResolvedLocal(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	local := bizCard("Jane Doe", "Acme")
	local.Email = "jane@new.test"
	putLocal(t, st, local)
	server := bizCard("Jane Doe", "Acme")
	server.ID = 9

	r, _ := newReconciler(a, st)
	res, err := r.Reconcile(context.Background(), []model.Card{server})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Conflicts)

	// ничего не загружено, хранилище на месте
	assert.True(t, st.has(repo.UnauthCardsKey))
	assert.Equal(t, ReviewState{Phase: PhaseReviewing, Index: 0, Total: 1}, r.State())
	pair, idx, total, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1, total)
	assert.Equal(t, "jane@new.test", pair.Local.Email)
	assert.Equal(t, int64(9), pair.Server.ID)

	a.On("CreateCard", mock.Anything, "tok", int64(7), mock.MatchedBy(func(c model.Card) bool {
		return c.Email == "jane@new.test"
	})).Return(model.Card{ID: 51}, nil).Once()

	require.NoError(t, r.Resolve(ChoiceLocal))
	finalized, res, err := r.Advance(context.Background())
	require.NoError(t, err)
	assert.True(t, finalized)
	assert.Equal(t, 1, res.Uploaded)

	assert.False(t, st.has(repo.UnauthCardsKey))
	assert.Equal(t, model.SyncSuccess, r.Outcome())
	assert.Equal(t, PhaseIdle, r.State().Phase)
	a.AssertNumberOfCalls(t, "CreateCard", 1)
}

func TestReconcile_ConflictUploadFailsKeepsStorage(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	local := bizCard("Jane Doe", "Acme")
	local.Email = "other@acme.test"
	putLocal(t, st, local)

	r, _ := newReconciler(a, st)
	_, err := r.Reconcile(context.Background(), []model.Card{bizCard("Jane Doe", "Acme")})
	require.NoError(t, err)

	a.On("CreateCard", mock.Anything, "tok", int64(7), mock.Anything).Return(model.Card{}, errors.New("boom")).Once()
	require.NoError(t, r.Resolve(ChoiceLocal))
	_, res, err := r.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.True(t, st.has(repo.UnauthCardsKey))
	assert.Equal(t, model.SyncPartialFailure, r.Outcome())
}

func TestReconcile_ConflictResolvedServerDiscardsLocal(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	local := bizCard("Jane Doe", "Acme")
	local.Phone = "555"
	putLocal(t, st, local)

	r, _ := newReconciler(a, st)
	_, err := r.Reconcile(context.Background(), []model.Card{bizCard("jane doe", "ACME ")})
	require.NoError(t, err)
	require.Equal(t, PhaseReviewing, r.State().Phase)

	require.NoError(t, r.Resolve(ChoiceServer))
	finalized, _, err := r.Advance(context.Background())
	require.NoError(t, err)
	assert.True(t, finalized)

	// очередь пуста: загрузок нет, итог не меняется, хранилище очищено
	assert.False(t, st.has(repo.UnauthCardsKey))
	assert.Equal(t, model.SyncNone, r.Outcome())
	a.AssertNotCalled(t, "CreateCard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Две новые карточки, одна загрузка падает: partial_failure, хранилище не очищено, повторов нет.
func TestReconcile_PartialFailure(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	putLocal(t, st, bizCard("A One", "Acme"), bizCard("B Two", "Acme"))
	a.On("CreateCard", mock.Anything, "tok", int64(7), named("A One")).Return(model.Card{}, errors.New("500")).Once()
	a.On("CreateCard", mock.Anything, "tok", int64(7), named("B Two")).Return(model.Card{ID: 2}, nil).Once()

	r, _ := newReconciler(a, st)
	res, err := r.Reconcile(context.Background(), []model.Card{bizCard("Z", "Z")})
	require.NoError(t, err)

	assert.Equal(t, SyncResult{New: 2, Uploaded: 1, Failed: 1}, res)
	assert.True(t, st.has(repo.UnauthCardsKey))
	assert.Equal(t, model.SyncPartialFailure, r.Outcome())
	a.AssertNumberOfCalls(t, "CreateCard", 2)

	r.ClearOutcome()
	assert.Equal(t, model.SyncNone, r.Outcome())
}

func TestReconcile_NewCardsWaitForConflictReview(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	conflicting := bizCard("Jane Doe", "Acme")
	conflicting.Notes = "local"
	putLocal(t, st, bizCard("Fresh", "Co"), conflicting)

	r, _ := newReconciler(a, st)
	res, err := r.Reconcile(context.Background(), []model.Card{bizCard("Jane Doe", "Acme")})
	require.NoError(t, err)
	assert.Equal(t, 1, res.New)
	assert.Equal(t, 1, res.Conflicts)
	a.AssertNotCalled(t, "CreateCard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	a.On("CreateCard", mock.Anything, "tok", int64(7), named("Fresh")).Return(model.Card{ID: 3}, nil).Once()
	require.NoError(t, r.Skip())
	_, res, err = r.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Uploaded)
	assert.Equal(t, model.SyncSuccess, r.Outcome())
	assert.False(t, st.has(repo.UnauthCardsKey))
}

func TestReconcile_CorruptOrEmptyStorage(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	r, _ := newReconciler(a, st)

	st.m[repo.UnauthCardsKey] = []byte("{not json")
	_, err := r.Reconcile(context.Background(), []model.Card{bizCard("A", "B")})
	require.NoError(t, err)
	assert.False(t, st.has(repo.UnauthCardsKey))

	st.m[repo.UnauthCardsKey] = []byte("[]")
	_, err = r.Reconcile(context.Background(), []model.Card{bizCard("A", "B")})
	require.NoError(t, err)
	assert.False(t, st.has(repo.UnauthCardsKey))
	assert.Equal(t, model.SyncNone, r.Outcome())
}

func TestReconcile_CardWithoutCompanyIsNew(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	noCompany := model.Card{Name: "Jane Doe", Type: model.TypeOther}
	putLocal(t, st, noCompany)
	a.On("CreateCard", mock.Anything, "tok", int64(7), named("Jane Doe")).Return(model.Card{ID: 4}, nil).Once()

	r, _ := newReconciler(a, st)
	res, err := r.Reconcile(context.Background(), []model.Card{{Name: "Jane Doe", Type: model.TypeOther}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.New)
}

func TestReconciler_StateMachineErrors(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	r, _ := newReconciler(a, st)

	assert.ErrorIs(t, r.Resolve(ChoiceLocal), ErrNotReviewing)
	assert.ErrorIs(t, r.Skip(), ErrNotReviewing)
	_, _, err := r.Advance(context.Background())
	assert.ErrorIs(t, err, ErrNotReviewing)
	_, _, _, ok := r.Current()
	assert.False(t, ok)

	c1 := bizCard("A", "X")
	c1.Notes = "1"
	c2 := bizCard("B", "X")
	c2.Notes = "2"
	putLocal(t, st, c1, c2)
	_, err = r.Reconcile(context.Background(), []model.Card{bizCard("A", "X"), bizCard("B", "X")})
	require.NoError(t, err)

	_, _, err = r.Advance(context.Background())
	assert.ErrorIs(t, err, ErrNotDecided)
	assert.Error(t, r.Resolve(Choice("both")))

	require.NoError(t, r.Skip())
	assert.ErrorIs(t, r.Resolve(ChoiceLocal), ErrAlreadyDecided)
	finalized, _, err := r.Advance(context.Background())
	require.NoError(t, err)
	assert.False(t, finalized)
	assert.Equal(t, ReviewState{Phase: PhaseReviewing, Index: 1, Total: 2}, r.State())

	_, err = r.Reconcile(context.Background(), nil)
	assert.ErrorIs(t, err, ErrSyncInProgress)
}

func TestReconcile_RequiresAuth(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	sess := NewSession(a, &memTokens{}, nil)
	r := NewReconciler(sess, a, st, 0, nil)
	_, err := r.Reconcile(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = r.SyncLocalCards(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSyncLocalCards_FetchesServerList(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	putLocal(t, st, bizCard("Jane Doe", "Acme"))
	a.On("ListCards", mock.Anything, "tok", int64(7)).Return([]model.Card{bizCard("Jane Doe", "Acme")}, nil).Once()

	r, _ := newReconciler(a, st)
	res, err := r.SyncLocalCards(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Dropped)

	a.On("ListCards", mock.Anything, "tok", int64(7)).Return(nil, errors.New("down")).Once()
	_, err = r.SyncLocalCards(context.Background())
	assert.Error(t, err)
}

func TestMaybeSync_OncePerSession(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	r, sess := newReconciler(a, st)
	server := []model.Card{bizCard("Jane Doe", "Acme")}

	ran, _, err := r.MaybeSync(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, ran, "empty server list must not trigger sync")

	ran, _, err = r.MaybeSync(context.Background(), server)
	require.NoError(t, err)
	assert.True(t, ran)

	ran, _, _ = r.MaybeSync(context.Background(), server)
	assert.False(t, ran, "second trigger in the same session")

	// выход сбрасывает флаг; анонимная сессия не синхронизируется
	require.NoError(t, sess.Logout())
	ran, _, _ = r.MaybeSync(context.Background(), server)
	assert.False(t, ran)

	a.On("Login", mock.Anything, "u@example.com", "secret1").Return(testCreds, nil).Once()
	_, err = sess.Login(context.Background(), "u@example.com", "secret1")
	require.NoError(t, err)
	ran, _, err = r.MaybeSync(context.Background(), server)
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestMaybeSync_CancelledDuringDelay(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	sess := authedSession(a)
	r := NewReconciler(sess, a, st, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran, _, err := r.MaybeSync(ctx, []model.Card{bizCard("A", "B")})
	assert.True(t, ran)
	assert.ErrorIs(t, err, context.Canceled)
}

// Выход во время загрузки: результат отбрасывается, хранилище и итог не трогаются.
func TestReconcile_LogoutDuringUploadDiscardsResult(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	putLocal(t, st, bizCard("Jane Doe", "Acme"))
	r, sess := newReconciler(a, st)

	a.On("CreateCard", mock.Anything, "tok", int64(7), mock.Anything).
		Run(func(mock.Arguments) { _ = sess.Logout() }).
		Return(model.Card{ID: 1}, nil).Once()

	_, err := r.Reconcile(context.Background(), []model.Card{bizCard("Other", "Co")})
	assert.ErrorIs(t, err, ErrStaleSession)
	assert.True(t, st.has(repo.UnauthCardsKey))
	assert.Equal(t, model.SyncNone, r.Outcome())
	assert.Equal(t, PhaseIdle, r.State().Phase)
}

// Загруженные синхронизацией карточки попадают в список CardService и в кэш пользователя.
func TestReconcile_UploadedCardsReachListAndCache(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	sess := authedSession(a)
	cards := NewCardService(sess, a, st, nil)
	r := NewReconciler(sess, a, st, 0, nil)
	r.SetCardSink(cards)

	server := []model.Card{{ID: 1, UserID: 7, Name: "Old", Company: "X", Type: model.TypeReward, Color: model.DefaultColor}}
	a.On("ListCards", mock.Anything, "tok", int64(7)).Return(server, nil).Once()
	_, err := cards.Load(context.Background())
	require.NoError(t, err)

	putLocal(t, st, bizCard("Jane Doe", "Acme"))
	uploaded := bizCard("Jane Doe", "Acme")
	uploaded.ID = 50
	a.On("CreateCard", mock.Anything, "tok", int64(7), named("Jane Doe")).Return(uploaded, nil).Once()

	res, err := r.Reconcile(context.Background(), server)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Uploaded)

	inMemory := cards.Cards()
	require.Len(t, inMemory, 2)
	assert.Equal(t, int64(50), inMemory[1].ID)
	assert.Equal(t, int64(7), inMemory[1].UserID)

	cached := storedCards(t, st, repo.UserCacheKey(7))
	require.Len(t, cached, 2)
	assert.Equal(t, "Jane Doe", cached[1].Name)
}

// Без загруженного списка основой служит сохранённый кэш, а не пустой список.
func TestReconcile_UploadedCardsMergeIntoStoredCache(t *testing.T) {
	a, st := &mockAPI{}, newMemStore()
	sess := authedSession(a)
	cards := NewCardService(sess, a, st, nil)
	r := NewReconciler(sess, a, st, 0, nil)
	r.SetCardSink(cards)

	old := model.Card{ID: 1, UserID: 7, Name: "Old", Company: "X", Type: model.TypeReward, Color: model.DefaultColor}
	require.NoError(t, writeList(st, repo.UserCacheKey(7), []model.Card{old}))
	putLocal(t, st, bizCard("Jane Doe", "Acme"))
	uploaded := bizCard("Jane Doe", "Acme")
	uploaded.ID = 50
	a.On("CreateCard", mock.Anything, "tok", int64(7), named("Jane Doe")).Return(uploaded, nil).Once()

	_, err := r.Reconcile(context.Background(), []model.Card{old})
	require.NoError(t, err)

	cached := storedCards(t, st, repo.UserCacheKey(7))
	require.Len(t, cached, 2)
	assert.Equal(t, "Old", cached[0].Name)
	assert.Equal(t, int64(50), cached[1].ID)
	assert.Len(t, cards.Cards(), 2)
}
