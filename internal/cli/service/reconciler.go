package service

import (
	"CardWallet/internal/cli/card"
	"CardWallet/internal/cli/model"
	"CardWallet/internal/cli/repo"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNotReviewing операция допустима только при разборе конфликтов.
	ErrNotReviewing = errors.New("no conflict is under review")
	// ErrAlreadyDecided решение по текущему конфликту уже принято.
	ErrAlreadyDecided = errors.New("current conflict already decided")
	// ErrNotDecided Advance до Resolve или Skip.
	ErrNotDecided = errors.New("current conflict is not decided yet")
	// ErrSyncInProgress синхронизация уже идёт.
	ErrSyncInProgress = errors.New("sync already in progress")
)

// Choice решение по конфликту.
type Choice string

const (
	ChoiceLocal  Choice = "local"
	ChoiceServer Choice = "server"
)

// ParseChoice разбирает "local"/"server".
func ParseChoice(s string) (Choice, error) {
	switch Choice(s) {
	case ChoiceLocal, ChoiceServer:
		return Choice(s), nil
	}
	return "", fmt.Errorf("unknown choice %q (want local|server)", s)
}

// Phase фаза разбора конфликтов.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseReviewing
	PhaseFinalizing
)

func (p Phase) String() string {
	switch p {
	case PhaseReviewing:
		return "reviewing"
	case PhaseFinalizing:
		return "finalizing"
	default:
		return "idle"
	}
}

// ReviewState снимок состояния: в Reviewing Index указывает на текущий конфликт из Total.
type ReviewState struct {
	Phase Phase
	Index int
	Total int
}

// SyncResult итог одного прохода синхронизации.
type SyncResult struct {
	New       int // карточек без пары на сервере
	Dropped   int // совпали с серверными полностью
	Conflicts int
	Uploaded  int
	Failed    int
}

// Reconciler переносит карточки, созданные без входа, в аккаунт пользователя.
// Совпадение ищется по имени и компании; при расхождении полей пользователь разбирает
// конфликты по одному (Resolve/Skip, затем Advance), после последнего выполняется загрузка.
type Reconciler struct {
	mu      sync.Mutex
	session *Session
	api     SyncAPI
	store   repo.LocalStore
	logger  *zap.SugaredLogger
	delay   time.Duration
	sink    CardSink

	synced  bool
	outcome model.SyncOutcome

	phase     Phase
	index     int
	decided   bool
	conflicts []model.ConflictPair
	uploads   []model.Card
	gen       uint64
}

// NewReconciler создаёт reconciler; флаг «уже синхронизировано» сбрасывается при выходе из сессии.
func NewReconciler(session *Session, api SyncAPI, store repo.LocalStore, delay time.Duration, logger *zap.SugaredLogger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	r := &Reconciler{session: session, api: api, store: store, delay: delay, logger: logger}
	session.OnLogout(r.reset)
	return r
}

// SetCardSink подключает получателя загруженных карточек, чтобы список и кэш не отставали от сервера.
func (r *Reconciler) SetCardSink(sink CardSink) {
	r.mu.Lock()
	r.sink = sink
	r.mu.Unlock()
}

func (r *Reconciler) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.synced = false
	r.clearReviewLocked()
}

func (r *Reconciler) clearReviewLocked() {
	r.phase = PhaseIdle
	r.index = 0
	r.decided = false
	r.conflicts = nil
	r.uploads = nil
}

// MaybeSync запускает синхронизацию один раз за сессию: только после входа, только если
// серверный список загружен и не пуст, и только после паузы delay. Возвращает true, если запуск состоялся.
func (r *Reconciler) MaybeSync(ctx context.Context, serverCards []model.Card) (bool, SyncResult, error) {
	if !r.session.IsAuthenticated() || len(serverCards) == 0 {
		return false, SyncResult{}, nil
	}
	r.mu.Lock()
	if r.synced {
		r.mu.Unlock()
		return false, SyncResult{}, nil
	}
	r.synced = true
	r.mu.Unlock()

	ctx, cancel := r.session.bind(ctx)
	defer cancel()
	if r.delay > 0 {
		t := time.NewTimer(r.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return true, SyncResult{}, ctx.Err()
		case <-t.C:
		}
	}
	res, err := r.Reconcile(ctx, serverCards)
	return true, res, err
}

// SyncLocalCards запрашивает серверный список и сверяет с ним локальные карточки.
func (r *Reconciler) SyncLocalCards(ctx context.Context) (SyncResult, error) {
	creds := r.session.Credentials()
	if creds.Token == "" {
		return SyncResult{}, ErrNotAuthenticated
	}
	ctx, cancel := r.session.bind(ctx)
	defer cancel()
	server, err := r.api.ListCards(ctx, creds.Token, creds.UserID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list server cards: %w", err)
	}
	return r.Reconcile(ctx, server)
}

// Reconcile сверяет локальные карточки с serverCards. Без конфликтов новые карточки
// загружаются сразу; при конфликтах начинается разбор и ничего не загружается.
func (r *Reconciler) Reconcile(ctx context.Context, serverCards []model.Card) (SyncResult, error) {
	creds, gen := r.session.snapshot()
	if creds.Token == "" {
		return SyncResult{}, ErrNotAuthenticated
	}

	r.mu.Lock()
	if r.phase != PhaseIdle {
		r.mu.Unlock()
		return SyncResult{}, ErrSyncInProgress
	}

	local, err := readList(r.store, repo.UnauthCardsKey, r.logger)
	if err != nil {
		r.mu.Unlock()
		return SyncResult{}, err
	}
	if len(local) == 0 {
		err := r.store.Remove(repo.UnauthCardsKey)
		r.mu.Unlock()
		return SyncResult{}, err
	}

	byKey := make(map[string]model.Card, len(serverCards))
	for _, sc := range serverCards {
		if k, ok := card.MatchKey(sc); ok {
			if _, dup := byKey[k]; !dup {
				byKey[k] = sc
			}
		}
	}

	var res SyncResult
	var newCards []model.Card
	var conflicts []model.ConflictPair
	for _, lc := range local {
		lc.ID = 0
		lc.UserID = 0
		k, ok := card.MatchKey(lc)
		sc, found := byKey[k]
		switch {
		case !ok || !found:
			newCards = append(newCards, lc)
		case card.SemanticallyIdentical(lc, sc):
			res.Dropped++
		default:
			conflicts = append(conflicts, model.ConflictPair{Local: lc, Server: sc})
		}
	}
	res.New = len(newCards)
	res.Conflicts = len(conflicts)

	if len(conflicts) > 0 {
		r.phase = PhaseReviewing
		r.index = 0
		r.decided = false
		r.conflicts = conflicts
		r.uploads = newCards
		r.gen = gen
		r.mu.Unlock()
		r.logger.Infow("sync conflicts found", "conflicts", len(conflicts), "new", len(newCards))
		return res, nil
	}

	if len(newCards) == 0 {
		err := r.store.Remove(repo.UnauthCardsKey)
		r.mu.Unlock()
		r.logger.Infow("local cards already on server", "dropped", res.Dropped)
		return res, err
	}

	r.phase = PhaseFinalizing
	r.gen = gen
	r.mu.Unlock()

	res.Uploaded, res.Failed, err = r.upload(ctx, newCards)
	return res, err
}

// upload последовательно создаёт карточки на сервере и фиксирует итог.
// Ошибка одной загрузки не прерывает цикл; при любой ошибке локальные карточки остаются.
func (r *Reconciler) upload(ctx context.Context, queue []model.Card) (int, int, error) {
	ctx, cancel := r.session.bind(ctx)
	defer cancel()
	creds := r.session.Credentials()
	r.mu.Lock()
	gen, sink := r.gen, r.sink
	r.mu.Unlock()
	uploaded, failed := 0, 0
	for _, c := range queue {
		created, err := r.api.CreateCard(ctx, creds.Token, creds.UserID, c)
		if err != nil {
			failed++
			r.logger.Warnw("upload local card failed", "name", c.Name, "company", c.Company, "error", err)
			continue
		}
		uploaded++
		if sink != nil && r.session.Generation() == gen {
			sink.Created(created)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// состояние прошлой сессии уже сброшено при выходе
	if r.session.Generation() != r.gen {
		return uploaded, failed, ErrStaleSession
	}
	r.clearReviewLocked()
	if len(queue) == 0 {
		return 0, 0, r.store.Remove(repo.UnauthCardsKey)
	}
	if failed > 0 {
		r.outcome = model.SyncPartialFailure
		r.logger.Warnw("sync finished with failures", "uploaded", uploaded, "failed", failed)
		return uploaded, failed, nil
	}
	r.outcome = model.SyncSuccess
	r.logger.Infow("sync finished", "uploaded", uploaded)
	return uploaded, 0, r.store.Remove(repo.UnauthCardsKey)
}

// Current конфликт под разбором и его номер.
func (r *Reconciler) Current() (model.ConflictPair, int, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseReviewing {
		return model.ConflictPair{}, 0, 0, false
	}
	return r.conflicts[r.index], r.index, len(r.conflicts), true
}

// State снимок состояния разбора.
func (r *Reconciler) State() ReviewState {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := ReviewState{Phase: r.phase}
	if r.phase == PhaseReviewing {
		st.Index, st.Total = r.index, len(r.conflicts)
	}
	return st
}

// Resolve фиксирует решение по текущему конфликту. ChoiceLocal ставит локальную версию
// в очередь загрузки, ChoiceServer отбрасывает её без возможности отмены.
func (r *Reconciler) Resolve(choice Choice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseReviewing {
		return ErrNotReviewing
	}
	if r.decided {
		return ErrAlreadyDecided
	}
	pair := r.conflicts[r.index]
	switch choice {
	case ChoiceLocal:
		r.uploads = append(r.uploads, pair.Local)
	case ChoiceServer:
		r.logger.Infow("local variant discarded in favour of server card",
			"name", pair.Local.Name, "company", pair.Local.Company, "server_id", pair.Server.ID)
	default:
		return fmt.Errorf("unknown choice %q", choice)
	}
	r.decided = true
	return nil
}

// Skip оставляет текущий конфликт без решения.
func (r *Reconciler) Skip() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseReviewing {
		return ErrNotReviewing
	}
	if r.decided {
		return ErrAlreadyDecided
	}
	r.decided = true
	return nil
}

// Advance переходит к следующему конфликту; после последнего загружает очередь
// и возвращается в Idle. Второе значение true, если выполнилась загрузка.
func (r *Reconciler) Advance(ctx context.Context) (bool, SyncResult, error) {
	r.mu.Lock()
	if r.phase != PhaseReviewing {
		r.mu.Unlock()
		return false, SyncResult{}, ErrNotReviewing
	}
	if !r.decided {
		r.mu.Unlock()
		return false, SyncResult{}, ErrNotDecided
	}
	if r.index+1 < len(r.conflicts) {
		r.index++
		r.decided = false
		r.mu.Unlock()
		return false, SyncResult{}, nil
	}
	r.phase = PhaseFinalizing
	queue := append([]model.Card(nil), r.uploads...)
	r.mu.Unlock()

	var res SyncResult
	var err error
	res.Uploaded, res.Failed, err = r.upload(ctx, queue)
	return true, res, err
}

// Outcome итог последней завершённой синхронизации; показывается один раз и сбрасывается ClearOutcome.
func (r *Reconciler) Outcome() model.SyncOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome
}

func (r *Reconciler) ClearOutcome() {
	r.mu.Lock()
	r.outcome = model.SyncNone
	r.mu.Unlock()
}
