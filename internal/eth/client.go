package eth

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

const dialTimeout = 15 * time.Second

// Dial connects to the node at url and checks that it answers eth_chainId.
func Dial(ctx context.Context, url string) (*ethclient.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	if _, err := client.ChainID(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("query chain id: %w", err)
	}
	return client, nil
}

// DialStrategyLib dials url and binds the strategy library at address. The
// caller owns the returned client and must close it.
func DialStrategyLib(ctx context.Context, url string, address common.Address) (*StrategyLib, *ethclient.Client, error) {
	client, err := Dial(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	lib, err := NewStrategyLib(client, address)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return lib, client, nil
}
