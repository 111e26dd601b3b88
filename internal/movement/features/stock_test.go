package features

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/fekuna/omnipos-warehouse-service/internal/alert"
	alertDTO "github.com/fekuna/omnipos-warehouse-service/internal/alert/dto"
	alertUseCase "github.com/fekuna/omnipos-warehouse-service/internal/alert/usecase"
	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement/dto"
	movementUseCase "github.com/fekuna/omnipos-warehouse-service/internal/movement/usecase"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/stock"
	stockUseCase "github.com/fekuna/omnipos-warehouse-service/internal/stock/usecase"
	"github.com/fekuna/omnipos-warehouse-service/internal/testutil/memstore"
)

const lowThreshold = 20

type stockTestContext struct {
	store     *memstore.Store
	movements movement.UseCase
	stock     stock.UseCase
	alerts    alert.UseCase
	ctx       context.Context

	products   map[string]string // sku -> id
	warehouses map[string]string // name -> id
	transferIn *model.StockMovement
	transfer   string
	err        error
}

func (c *stockTestContext) reset() {
	log := logger.NewNop()
	rec := &memstore.Recorder{}
	c.store = memstore.New()
	c.alerts = alertUseCase.NewAlertUseCase(c.store.Alerts(), nil, nil, rec, "en", log)
	c.stock = stockUseCase.NewStockUseCase(c.store.Stock(), c.alerts, rec, lowThreshold, log)
	c.movements = movementUseCase.NewMovementUseCase(movementUseCase.Deps{
		Repo:       c.store.Movements(),
		Products:   c.store.Products(),
		Warehouses: c.store.Warehouses(),
		Bins:       c.store.Bins(),
		Stock:      c.stock,
		Audit:      rec,
		Logger:     log,
	})
	c.ctx = auth.WithUser(context.Background(), &auth.UserContext{UserID: "clerk-1", Role: model.RoleClerk})
	c.products = map[string]string{}
	c.warehouses = map[string]string{}
	c.transferIn = nil
	c.transfer = ""
	c.err = nil
}

func (c *stockTestContext) aProduct(sku string) error {
	id := "p-" + sku
	c.products[sku] = id
	return c.store.Products().Create(c.ctx, &model.Product{BaseModel: model.BaseModel{ID: id}, SKU: sku, Name: sku, IsActive: true})
}

func (c *stockTestContext) aWarehouseWithBin(name, binCode string) error {
	id := "w-" + name
	c.warehouses[name] = id
	if err := c.store.Warehouses().Create(c.ctx, &model.Warehouse{BaseModel: model.BaseModel{ID: id}, Name: name, IsActive: true}); err != nil {
		return err
	}
	return c.store.Bins().Create(c.ctx, &model.Bin{Code: binCode, WarehouseID: id, ZoneID: "z-" + name, IsActive: true})
}

func (c *stockTestContext) lookup(sku, warehouse string) (string, string, error) {
	p, ok := c.products[sku]
	if !ok {
		return "", "", fmt.Errorf("unknown product %q", sku)
	}
	w, ok := c.warehouses[warehouse]
	if !ok {
		return "", "", fmt.Errorf("unknown warehouse %q", warehouse)
	}
	return p, w, nil
}

func (c *stockTestContext) record(input *dto.MovementInput) (*model.StockMovement, error) {
	m, err := c.movements.RecordMovement(c.ctx, input)
	c.err = err
	return m, err
}

func (c *stockTestContext) unitsReceived(qty int, sku, bin, warehouse string) error {
	p, w, err := c.lookup(sku, warehouse)
	if err != nil {
		return err
	}
	_, err = c.record(&dto.MovementInput{ProductID: p, WarehouseID: w, MovementType: model.MovementIn, Quantity: qty, ToBinCode: &bin})
	return err
}

// Shipping failures are asserted by a later step.
func (c *stockTestContext) unitsShipped(qty int, sku, bin, warehouse string) error {
	p, w, err := c.lookup(sku, warehouse)
	if err != nil {
		return err
	}
	c.record(&dto.MovementInput{ProductID: p, WarehouseID: w, MovementType: model.MovementOut, Quantity: qty, FromBinCode: &bin})
	return nil
}

func (c *stockTestContext) unitsSent(qty int, sku, bin, warehouse string) error {
	p, w, err := c.lookup(sku, warehouse)
	if err != nil {
		return err
	}
	out, err := c.record(&dto.MovementInput{ProductID: p, WarehouseID: w, MovementType: model.MovementTransferOut, Quantity: qty, FromBinCode: &bin})
	if err != nil {
		return err
	}
	if out.TransferCode == nil {
		return errors.New("outgoing transfer has no code")
	}
	c.transfer = *out.TransferCode
	return nil
}

func (c *stockTestContext) transferReceived(bin, warehouse string) error {
	w, ok := c.warehouses[warehouse]
	if !ok {
		return fmt.Errorf("unknown warehouse %q", warehouse)
	}
	out, _, err := c.movements.ListMovements(c.ctx, &dto.MovementFilters{TransferCode: c.transfer, MovementType: model.MovementTransferOut})
	if err != nil {
		return err
	}
	if len(out) != 1 {
		return fmt.Errorf("expected one outgoing leg for %s, got %d", c.transfer, len(out))
	}
	in, err := c.record(&dto.MovementInput{
		WarehouseID: w, MovementType: model.MovementTransferIn, Quantity: out[0].Quantity, ToBinCode: &bin, TransferCode: c.transfer,
	})
	if err != nil {
		return err
	}
	c.transferIn = in
	return nil
}

func (c *stockTestContext) transferCompleted() error {
	if c.transferIn == nil {
		return errors.New("no incoming transfer leg")
	}
	done := true
	_, err := c.movements.UpdateMovement(c.ctx, c.transferIn.ID, &dto.MovementInput{
		MovementType:   model.MovementTransferIn,
		Quantity:       c.transferIn.Quantity,
		ToBinCode:      c.transferIn.ToBinCode,
		TransferStatus: &done,
	})
	return err
}

func (c *stockTestContext) movementRejectedWith(code string) error {
	if c.err == nil {
		return errors.New("expected the movement to be rejected")
	}
	if got := apperror.CodeOf(c.err); string(got) != code {
		return fmt.Errorf("expected %s, got %s (%v)", code, got, c.err)
	}
	return nil
}

func (c *stockTestContext) stockIs(sku, warehouse string, qty int, level string) error {
	p, w, err := c.lookup(sku, warehouse)
	if err != nil {
		return err
	}
	s, err := c.stock.GetStatus(c.ctx, p, w)
	if err != nil {
		return err
	}
	if s.Quantity != qty || s.StockLevel != level {
		return fmt.Errorf("expected %d %q, got %d %q", qty, level, s.Quantity, s.StockLevel)
	}
	return nil
}

func (c *stockTestContext) binHolds(bin string, qty int, sku string) error {
	p, ok := c.products[sku]
	if !ok {
		return fmt.Errorf("unknown product %q", sku)
	}
	if got := c.store.BinQuantity(p, bin); got != qty {
		return fmt.Errorf("expected bin %s to hold %d, got %d", bin, qty, got)
	}
	return nil
}

func (c *stockTestContext) openAlerts(n int, alertType, sku, warehouse string) error {
	p, w, err := c.lookup(sku, warehouse)
	if err != nil {
		return err
	}
	open := false
	_, total, err := c.alerts.ListAlerts(c.ctx, &alertDTO.AlertFilters{
		ProductID: p, WarehouseID: w, AlertType: model.AlertType(alertType), IsAcknowledged: &open,
	})
	if err != nil {
		return err
	}
	if total != n {
		return fmt.Errorf("expected %d open %s alerts, got %d", n, alertType, total)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &stockTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a product "([^"]*)"$`, tc.aProduct)
	ctx.Step(`^a warehouse "([^"]*)" with bin "([^"]*)"$`, tc.aWarehouseWithBin)

	// When steps
	ctx.Step(`^(\d+) units of "([^"]*)" are received into bin "([^"]*)" of "([^"]*)"$`, tc.unitsReceived)
	ctx.Step(`^(\d+) units of "([^"]*)" are shipped from bin "([^"]*)" of "([^"]*)"$`, tc.unitsShipped)
	ctx.Step(`^(\d+) units of "([^"]*)" are sent from bin "([^"]*)" of "([^"]*)"$`, tc.unitsSent)
	ctx.Step(`^the transfer is received into bin "([^"]*)" of "([^"]*)"$`, tc.transferReceived)
	ctx.Step(`^the transfer is completed$`, tc.transferCompleted)

	// Then steps
	ctx.Step(`^the movement is rejected with "([^"]*)"$`, tc.movementRejectedWith)
	ctx.Step(`^the stock of "([^"]*)" in "([^"]*)" is (\d+) and "([^"]*)"$`, tc.stockIs)
	ctx.Step(`^bin "([^"]*)" holds (\d+) units of "([^"]*)"$`, tc.binHolds)
	ctx.Step(`^there is (\d+) open "([^"]*)" alert for "([^"]*)" in "([^"]*)"$`, tc.openAlerts)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"stock.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
