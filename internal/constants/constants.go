package constants

// Order status constants. The French labels are the canonical stored values;
// they travel unchanged through the API, the audit trail and the reports.
const (
	OrderStatusRegistered         = "Enregistrée"
	OrderStatusRegisteredModified = "Enregistrée (modifiée)"
	OrderStatusInDelivery         = "En livraison"
	OrderStatusPickedUp           = "Récupérée"
	OrderStatusCancelled          = "Annulée"
)

// Modification type constants, one per audited change category.
const (
	ModificationTypeCustomerInfo      = "infos_client"
	ModificationTypePickupDate        = "date_retrait"
	ModificationTypeShop              = "boutique"
	ModificationTypeProductsRemoved   = "produits_supprimes"
	ModificationTypeProductsAdded     = "produits_ajoutes"
	ModificationTypeQuantitiesChanged = "quantites_modifiees"
)

// Staff role constants.
const (
	RoleVendeur    = "vendeur"
	RoleBoutique   = "boutique"
	RoleProduction = "production"
	RoleAdmin      = "admin"
)

// Stock reconciliation direction constants.
const (
	StockDirectionDecrement = "decrement"
	StockDirectionIncrement = "increment"
)

// Production summary event filter constants.
const (
	EventFilterEvent   = "event"
	EventFilterRegular = "regular"
)

// Asynq queue names.
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// Default status history comments written by the modification engine.
const (
	HistoryCommentOrderModified = "Commande modifiée"
	HistoryCommentStatusChanged = "Statut modifié"
	HistoryCommentOrderCreated  = "Commande créée"
)
