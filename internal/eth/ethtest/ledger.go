// Package ethtest provides an in-process ledger that answers eth_call for
// the normal strategy library, for tests that need a contract executor.
package ethtest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/nulln0ne/normal-curve-oracle/internal/eth"
	"github.com/nulln0ne/normal-curve-oracle/internal/wad"
	"github.com/nulln0ne/normal-curve-oracle/pkg/normalcurve"
)

// Ledger serves eth_call by decoding the strategy tuple and evaluating it
// with pkg/normalcurve. Skew, when set, is added to every float result before
// it is scaled back, standing in for fixed-point error.
type Ledger struct {
	Skew  float64
	Fail  error
	calls atomic.Int64
	abi   gethabi.ABI
}

// NewLedger returns a Ledger with the strategy ABI loaded.
func NewLedger(t testing.TB) *Ledger {
	t.Helper()
	parsed, err := gethabi.JSON(strings.NewReader(eth.StrategyLibABI))
	if err != nil {
		t.Fatalf("parse abi: %v", err)
	}
	return &Ledger{abi: parsed}
}

// Calls reports how many eth_call requests were served.
func (l *Ledger) Calls() int64 {
	return l.calls.Load()
}

// Client registers the ledger under the eth namespace of an in-process RPC
// server and returns a client connected to it.
func (l *Ledger) Client(t testing.TB) *ethclient.Client {
	t.Helper()
	srv := gethrpc.NewServer()
	if err := srv.RegisterName("eth", &ethService{ledger: l}); err != nil {
		t.Fatalf("register rpc service: %v", err)
	}
	t.Cleanup(srv.Stop)
	c := ethclient.NewClient(gethrpc.DialInProc(srv))
	t.Cleanup(c.Close)
	return c
}

// URL serves the ledger over HTTP and returns the endpoint, for code that
// dials by URL.
func (l *Ledger) URL(t testing.TB) string {
	t.Helper()
	srv := gethrpc.NewServer()
	if err := srv.RegisterName("eth", &ethService{ledger: l}); err != nil {
		t.Fatalf("register rpc service: %v", err)
	}
	hs := httptest.NewServer(srv)
	t.Cleanup(func() {
		hs.Close()
		srv.Stop()
	})
	return hs.URL
}

// ChainID is the value the ledger reports for eth_chainId.
const ChainID = 31337

// ethService exposes eth_chainId and eth_call to the RPC server.
type ethService struct {
	ledger *Ledger
}

func (s *ethService) ChainId() *hexutil.Big {
	return (*hexutil.Big)(big.NewInt(ChainID))
}

func (s *ethService) Call(ctx context.Context, args map[string]interface{}, block gethrpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	return s.ledger.call(args)
}

func (l *Ledger) call(args map[string]interface{}) (hexutil.Bytes, error) {
	l.calls.Add(1)
	if l.Fail != nil {
		return nil, l.Fail
	}

	raw, _ := args["input"].(string)
	if raw == "" {
		raw, _ = args["data"].(string)
	}
	data, err := hexutil.Decode(raw)
	if err != nil || len(data) < 4 {
		return nil, errors.New("missing call data")
	}
	method, err := l.abi.MethodById(data[:4])
	if err != nil {
		return nil, err
	}
	values, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, err
	}
	in := *gethabi.ConvertType(values[0], new(eth.CurveWad)).(*eth.CurveWad)

	c := normalcurve.Curve{
		ReserveXPerLiquidity: wad.ToFloat(in.ReserveXPerWad),
		ReserveYPerLiquidity: wad.ToFloat(in.ReserveYPerWad),
		StrikePrice:          wad.ToFloat(in.StrikePriceWad),
		Volatility:           wad.ToFloat(in.StandardDeviationWad),
		TimeRemainingSeconds: float64(in.TimeRemainingSeconds.Uint64()),
		Invariant:            wad.ToFloat(in.Invariant),
	}

	var v float64
	switch method.Name {
	case "tradingFunction":
		v, err = c.TradingFunction()
	case "approximateYGivenX":
		v, err = c.YGivenX()
	case "approximateXGivenY":
		v, err = c.XGivenY()
	default:
		err = fmt.Errorf("unsupported method %s", method.Name)
	}
	if err != nil {
		// The contract reverts on out-of-domain input.
		return nil, fmt.Errorf("execution reverted: %w", err)
	}

	out, err := wad.FromFloat(v + l.Skew)
	if err != nil {
		return nil, err
	}
	if method.Outputs[0].Type.T == gethabi.UintTy && out.Sign() < 0 {
		out = new(big.Int)
	}
	return method.Outputs.Pack(out)
}
