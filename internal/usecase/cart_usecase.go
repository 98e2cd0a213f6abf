package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"gomarketplace/internal/config"
	"gomarketplace/internal/domain/model"
	repo "gomarketplace/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	actionList      = "list"
	actionVersion   = "version"
	actionAdd       = "add"
	actionIncrement = "increment"
	actionDecrement = "decrement"
)

type CartOptions struct {
	// 保存先キー。空なら config.DefaultStorageKey
	Key    string
	Logger *zap.Logger
	// 保存失敗の通知先。呼び出し元はブロックしない
	OnPersistError func(error)
}

// CartSummary は画面表示用のまとめ。
type CartSummary struct {
	Items    model.Cart
	Total    decimal.Decimal
	Quantity int
}

type cartCommand struct {
	action string
	input  model.ProductInput
	id     string
	reply  chan cartResult
}

type cartResult struct {
	items   model.Cart
	version uint64
	err     error
}

type cartSnapshot struct {
	version uint64
	items   model.Cart
}

// CartUsecase はセッション中のカートの唯一の持ち主。
// 読み書きはすべて1本のgoroutineに直列化し、保存は別goroutineで最新分だけ書く。
type CartUsecase struct {
	storage        repo.KeyValueStorage
	key            string
	log            *zap.Logger
	onPersistError func(error)

	commands        chan cartCommand
	persistRequests chan cartSnapshot
	closing         chan struct{}
	ready           chan struct{}
	persistDone     chan struct{}
	closeOnce       sync.Once

	// loop goroutine だけが触る
	items   model.Cart
	version uint64

	pmu      sync.Mutex
	written  uint64
	writeErr error
	wrote    chan struct{}
}

// NewCartUsecase は保存済みカートの読み込みを非同期で開始して返す。
// ctx の値は保存処理に引き継ぐが、キャンセルは伝えない。
func NewCartUsecase(ctx context.Context, storage repo.KeyValueStorage, opts CartOptions) *CartUsecase {
	if opts.Key == "" {
		opts.Key = config.DefaultStorageKey
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	u := &CartUsecase{
		storage:        storage,
		key:            opts.Key,
		log:            opts.Logger.With(zap.String("storage_key", opts.Key)),
		onPersistError: opts.OnPersistError,

		commands:        make(chan cartCommand),
		persistRequests: make(chan cartSnapshot, 1),
		closing:         make(chan struct{}),
		ready:           make(chan struct{}),
		persistDone:     make(chan struct{}),
		wrote:           make(chan struct{}),

		items: model.Cart{},
	}

	base := context.WithoutCancel(ctx)
	go u.loop(base)
	go u.persistenceLoop(base)
	return u
}

// Ready は読み込み完了で閉じる。
func (u *CartUsecase) Ready() <-chan struct{} {
	u.mustInit()
	return u.ready
}

// 現在のカート（コピー）
func (u *CartUsecase) Products(ctx context.Context) (model.Cart, error) {
	res := u.submit(ctx, cartCommand{action: actionList})
	return res.items, res.err
}

func (u *CartUsecase) Summary(ctx context.Context) (CartSummary, error) {
	items, err := u.Products(ctx)
	if err != nil {
		return CartSummary{}, err
	}
	return CartSummary{
		Items:    items,
		Total:    items.Total(),
		Quantity: items.Quantity(),
	}, nil
}

// AddToCart は同一商品なら数量+1、無ければ末尾に数量1で追加。
func (u *CartUsecase) AddToCart(ctx context.Context, in model.ProductInput) (model.Cart, error) {
	if err := in.Validate(); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res := u.submit(ctx, cartCommand{action: actionAdd, input: in})
	return res.items, res.err
}

// Increment は該当なしなら何もしない。
func (u *CartUsecase) Increment(ctx context.Context, id string) (model.Cart, error) {
	res := u.submit(ctx, cartCommand{action: actionIncrement, id: id})
	return res.items, res.err
}

// Decrement は数量1の明細を削除する。該当なしなら何もしない。
func (u *CartUsecase) Decrement(ctx context.Context, id string) (model.Cart, error) {
	res := u.submit(ctx, cartCommand{action: actionDecrement, id: id})
	return res.items, res.err
}

// Flush はここまでの変更が書き込まれる（または失敗する）まで待つ。
func (u *CartUsecase) Flush(ctx context.Context) error {
	res := u.submit(ctx, cartCommand{action: actionVersion})
	if res.err != nil {
		return res.err
	}

	for {
		u.pmu.Lock()
		if u.written >= res.version {
			err := u.writeErr
			u.pmu.Unlock()
			return err
		}
		wrote := u.wrote
		u.pmu.Unlock()

		select {
		case <-wrote:
		case <-u.persistDone:
			u.pmu.Lock()
			defer u.pmu.Unlock()
			if u.written >= res.version {
				return u.writeErr
			}
			return ErrCartClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close は受付を止め、最後の状態を書き終えるまで待つ。
// 最後の書き込みが失敗していればそのエラーを返す。
func (u *CartUsecase) Close(ctx context.Context) error {
	u.mustInit()
	u.closeOnce.Do(func() { close(u.closing) })

	select {
	case <-u.persistDone:
		// loop は persistDone より先に終わっているので version は読める
		u.pmu.Lock()
		defer u.pmu.Unlock()
		if u.written == u.version {
			return u.writeErr
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (u *CartUsecase) mustInit() {
	if u == nil || u.commands == nil {
		panic("usecase: CartUsecase must be created with NewCartUsecase")
	}
}

func (u *CartUsecase) submit(ctx context.Context, cmd cartCommand) cartResult {
	u.mustInit()
	cmd.reply = make(chan cartResult, 1)

	select {
	case u.commands <- cmd:
	case <-u.closing:
		return cartResult{err: ErrCartClosed}
	case <-ctx.Done():
		return cartResult{err: ctx.Err()}
	}

	select {
	case res := <-cmd.reply:
		return res
	case <-ctx.Done():
		return cartResult{err: ctx.Err()}
	}
}

// loop は読み込み後、すべてのコマンドを順に処理する。
func (u *CartUsecase) loop(ctx context.Context) {
	defer close(u.persistRequests)

	u.hydrate(ctx)
	close(u.ready)

	for {
		select {
		case cmd := <-u.commands:
			cmd.reply <- u.handle(cmd)
		case <-u.closing:
			return
		}
	}
}

func (u *CartUsecase) handle(cmd cartCommand) cartResult {
	var (
		next    model.Cart
		changed bool
	)

	switch cmd.action {
	case actionList:
		return cartResult{items: u.items.Clone(), version: u.version}
	case actionVersion:
		return cartResult{version: u.version}
	case actionAdd:
		next, changed = u.items.Add(cmd.input), true
	case actionIncrement:
		next, changed = u.items.Increment(cmd.id)
	case actionDecrement:
		next, changed = u.items.Decrement(cmd.id)
	default:
		return cartResult{err: fmt.Errorf("unsupported action %s", cmd.action)}
	}

	if !changed {
		u.log.Debug("cart item not found", zap.String("action", cmd.action), zap.String("id", cmd.id))
		return cartResult{items: u.items.Clone(), version: u.version}
	}

	u.items = next
	u.version++
	u.queuePersist()
	return cartResult{items: u.items.Clone(), version: u.version}
}

// hydrate は保存済みカートを読む。読めなければ空カートで始める。
func (u *CartUsecase) hydrate(ctx context.Context) {
	data, err := u.storage.Get(ctx, u.key)
	if errors.Is(err, repo.ErrNotFound) {
		return
	}
	if err != nil {
		u.log.Warn("failed to load cart, starting empty", zap.Error(err))
		return
	}

	var items model.Cart
	if err := json.Unmarshal(data, &items); err != nil {
		u.log.Warn("stored cart is malformed, starting empty", zap.Error(err))
		return
	}

	u.items = items.Normalize()
	u.log.Info("cart loaded", zap.Int("items", len(u.items)))
}

// queuePersist は待たずにスナップショットを渡す。未処理の古いものは捨てる。
func (u *CartUsecase) queuePersist() {
	snap := cartSnapshot{version: u.version, items: u.items.Clone()}
	select {
	case u.persistRequests <- snap:
	default:
		select {
		case <-u.persistRequests:
		default:
		}
		u.persistRequests <- snap
	}
}

func (u *CartUsecase) persistenceLoop(ctx context.Context) {
	defer close(u.persistDone)

	for snap := range u.persistRequests {
		err := u.persist(ctx, snap)

		u.pmu.Lock()
		u.written = snap.version
		u.writeErr = err
		close(u.wrote)
		u.wrote = make(chan struct{})
		u.pmu.Unlock()
	}
}

func (u *CartUsecase) persist(ctx context.Context, snap cartSnapshot) error {
	data, err := json.Marshal(snap.items)
	if err == nil {
		err = u.storage.Set(ctx, u.key, data)
	}
	if err != nil {
		err = fmt.Errorf("persist cart version %d: %w", snap.version, err)
		u.log.Error("failed to persist cart", zap.Uint64("version", snap.version), zap.Error(err))
		if u.onPersistError != nil {
			u.onPersistError(err)
		}
		return err
	}

	u.log.Debug("cart persisted", zap.Uint64("version", snap.version), zap.Int("items", len(snap.items)))
	return nil
}
