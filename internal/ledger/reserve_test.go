package ledger

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightvolt/backoffice-backend/pkg/enums"
	pkgerrors "github.com/brightvolt/backoffice-backend/pkg/errors"
)

func TestAdjustReservedIncrease(t *testing.T) {
	gdb := setupLedgerTestDB(t)
	svc := newLedgerService(t, gdb)
	ctx := context.Background()

	wh1 := createLocation(t, gdb, "WH1")
	item := createItem(t, gdb, "PAN-410", levelSpec{location: wh1, current: 10, minimum: 2})

	txn, err := svc.AdjustReserved(ctx, ReserveInput{
		ItemID:      item.ID,
		LocationID:  wh1.ID,
		Action:      enums.ReserveActionIncrease,
		Quantity:    5,
		PerformedBy: "jvermeer",
	})
	require.NoError(t, err)
	require.NotNil(t, txn)

	assert.Equal(t, enums.TransactionTypeAllocation, txn.Type)
	assert.Equal(t, 5, txn.Quantity)
	assert.Equal(t, txn.StockBefore, txn.StockAfter)

	level := loadLevel(t, gdb, item.ID, wh1.ID)
	assert.Equal(t, 10, level.CurrentStock)
	assert.Equal(t, 5, level.ReservedStock)
	assert.Equal(t, 5, level.AvailableStock)

	// Over-reserving the remainder plus one must fail and leave the level alone.
	_, err = svc.AdjustReserved(ctx, ReserveInput{
		ItemID:      item.ID,
		LocationID:  wh1.ID,
		Action:      enums.ReserveActionIncrease,
		Quantity:    6,
		PerformedBy: "jvermeer",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, 5, loadLevel(t, gdb, item.ID, wh1.ID).ReservedStock)
}

func TestAdjustReservedDecreaseGuard(t *testing.T) {
	gdb := setupLedgerTestDB(t)
	svc := newLedgerService(t, gdb)
	ctx := context.Background()

	wh1 := createLocation(t, gdb, "WH1")
	item := createItem(t, gdb, "PAN-410", levelSpec{location: wh1, current: 10, reserved: 3})

	_, err := svc.AdjustReserved(ctx, ReserveInput{
		ItemID:      item.ID,
		LocationID:  wh1.ID,
		Action:      enums.ReserveActionDecrease,
		Quantity:    4,
		PerformedBy: "jvermeer",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, 3, loadLevel(t, gdb, item.ID, wh1.ID).ReservedStock)

	txn, err := svc.AdjustReserved(ctx, ReserveInput{
		ItemID:      item.ID,
		LocationID:  wh1.ID,
		Action:      enums.ReserveActionDecrease,
		Quantity:    3,
		PerformedBy: "jvermeer",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.TransactionTypeReturn, txn.Type)

	level := loadLevel(t, gdb, item.ID, wh1.ID)
	assert.Equal(t, 0, level.ReservedStock)
	assert.Equal(t, 10, level.AvailableStock)
}

func TestAdjustReservedUnreserveAll(t *testing.T) {
	gdb := setupLedgerTestDB(t)
	svc := newLedgerService(t, gdb)
	ctx := context.Background()

	wh1 := createLocation(t, gdb, "WH1")
	item := createItem(t, gdb, "PAN-410", levelSpec{location: wh1, current: 10, reserved: 5})

	txn, err := svc.AdjustReserved(ctx, ReserveInput{
		ItemID:      item.ID,
		LocationID:  wh1.ID,
		Action:      enums.ReserveActionUnreserveAll,
		PerformedBy: "jvermeer",
	})
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, enums.TransactionTypeReturn, txn.Type)
	assert.Equal(t, 5, txn.Quantity)

	level := loadLevel(t, gdb, item.ID, wh1.ID)
	assert.Equal(t, 0, level.ReservedStock)
	assert.Equal(t, 10, level.AvailableStock)

	// Nothing left to release: the second call is a no-op with no audit row.
	before := countTransactions(t, gdb, item.ID)
	txn, err = svc.AdjustReserved(ctx, ReserveInput{
		ItemID:      item.ID,
		LocationID:  wh1.ID,
		Action:      enums.ReserveActionUnreserveAll,
		PerformedBy: "jvermeer",
	})
	require.NoError(t, err)
	assert.Nil(t, txn)
	assert.Equal(t, before, countTransactions(t, gdb, item.ID))
}

func TestAdjustStockSignedMapping(t *testing.T) {
	gdb := setupLedgerTestDB(t)
	svc := newLedgerService(t, gdb)
	ctx := context.Background()

	wh1 := createLocation(t, gdb, "WH1")
	item := createItem(t, gdb, "CBL-014", levelSpec{location: wh1, current: 30, minimum: 5})

	txn, err := svc.AdjustStock(ctx, AdjustInput{
		ItemID:      item.ID,
		LocationID:  wh1.ID,
		Quantity:    15,
		PerformedBy: "jvermeer",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.TransactionTypeAdjustmentIn, txn.Type)
	assert.Equal(t, 15, txn.Quantity)
	assert.True(t, strings.HasPrefix(txn.Reference, "TXN-ADI-"), "reference %s", txn.Reference)
	assert.Equal(t, 45, loadLevel(t, gdb, item.ID, wh1.ID).CurrentStock)

	txn, err = svc.AdjustStock(ctx, AdjustInput{
		ItemID:      item.ID,
		LocationID:  wh1.ID,
		Quantity:    -5,
		PerformedBy: "jvermeer",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.TransactionTypeAdjustmentOut, txn.Type)
	assert.Equal(t, 5, txn.Quantity)
	assert.Equal(t, 40, loadLevel(t, gdb, item.ID, wh1.ID).CurrentStock)

	_, err = svc.AdjustStock(ctx, AdjustInput{
		ItemID:      item.ID,
		LocationID:  wh1.ID,
		Quantity:    0,
		PerformedBy: "jvermeer",
	})
	require.Error(t, err)
}

func TestBulkAdjust(t *testing.T) {
	gdb := setupLedgerTestDB(t)
	svc := newLedgerService(t, gdb)
	ctx := context.Background()

	wh1 := createLocation(t, gdb, "WH1")
	breaker := createItem(t, gdb, "BRK-001", levelSpec{location: wh1, current: 100, minimum: 20})
	cable := createItem(t, gdb, "CBL-014", levelSpec{location: wh1, current: 30, minimum: 5})
	panel := createItem(t, gdb, "PAN-410", levelSpec{location: wh1, current: 8, minimum: 2})

	results := svc.BulkAdjust(ctx, "jvermeer", []BulkEntry{
		{ItemID: breaker.ID, LocationID: wh1.ID, Op: BulkOpAdd, Quantity: 10},
		{ItemID: cable.ID, LocationID: wh1.ID, Op: BulkOpSubtract, Quantity: 50},
		{ItemID: panel.ID, LocationID: wh1.ID, Op: BulkOpSet, Quantity: 20},
		{ItemID: uuid.New(), LocationID: wh1.ID, Op: BulkOpAdd, Quantity: 1},
	})
	require.Len(t, results, 4)

	assert.True(t, results[0].Succeeded)
	require.NotNil(t, results[0].Transaction)
	assert.Equal(t, enums.TransactionTypeAdjustmentIn, results[0].Transaction.Type)
	assert.Equal(t, 110, loadLevel(t, gdb, breaker.ID, wh1.ID).CurrentStock)

	// Subtracting past zero fails that entry without touching the others.
	assert.False(t, results[1].Succeeded)
	assert.NotEmpty(t, results[1].Error)
	assert.Equal(t, 30, loadLevel(t, gdb, cable.ID, wh1.ID).CurrentStock)

	// Set computes the signed delta against the current level.
	assert.True(t, results[2].Succeeded)
	require.NotNil(t, results[2].Transaction)
	assert.Equal(t, enums.TransactionTypeAdjustmentIn, results[2].Transaction.Type)
	assert.Equal(t, 12, results[2].Transaction.Quantity)
	assert.Equal(t, 20, loadLevel(t, gdb, panel.ID, wh1.ID).CurrentStock)

	assert.False(t, results[3].Succeeded)
}

func TestBulkAdjustSetNoChange(t *testing.T) {
	gdb := setupLedgerTestDB(t)
	svc := newLedgerService(t, gdb)
	ctx := context.Background()

	wh1 := createLocation(t, gdb, "WH1")
	item := createItem(t, gdb, "BRK-001", levelSpec{location: wh1, current: 100})

	results := svc.BulkAdjust(ctx, "jvermeer", []BulkEntry{
		{ItemID: item.ID, LocationID: wh1.ID, Op: BulkOpSet, Quantity: 100},
	})
	require.Len(t, results, 1)
	assert.True(t, results[0].Succeeded)
	assert.Nil(t, results[0].Transaction)
	assert.Zero(t, countTransactions(t, gdb, item.ID))
}
