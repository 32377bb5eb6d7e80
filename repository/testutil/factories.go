package testutil

import (
	"time"

	"xpslots/domain/entities"
)

// CreateTestPurchase creates a pending purchase of the given package
func CreateTestPurchase(paymentID, identity, packageID string) *entities.Purchase {
	pkg, err := entities.FindXPPackage(packageID)
	if err != nil {
		panic(err)
	}
	return &entities.Purchase{
		PaymentID: paymentID,
		Identity:  identity,
		PackageID: pkg.ID,
		XPAmount:  pkg.XPAmount,
		Price:     pkg.Price,
		Currency:  pkg.Currency,
		Status:    entities.PaymentStatusPending,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// CreateTestPurchaseAt creates a pending purchase with a specific creation time
func CreateTestPurchaseAt(paymentID, identity, packageID string, createdAt time.Time) *entities.Purchase {
	purchase := CreateTestPurchase(paymentID, identity, packageID)
	purchase.CreatedAt = createdAt.UTC().Truncate(time.Microsecond)
	return purchase
}
