package store

// Key layout. Primary records are {prefix}{id} → JSON; join rows and
// secondary indexes live under idx: prefixes so primary-prefix scans can
// skip them cheaply.
const (
	memberPrefix   = "member:"   // member:{id} → Member
	itemPrefix     = "item:"     // item:{id} → ClothingItem
	tagPrefix      = "tag:"      // tag:{id} → Tag
	locationPrefix = "loc:"      // loc:{id} → Location
	transferPrefix = "xfer:"     // xfer:{id} → TransferRecord
	settingsKey    = "settings:" // singleton AppSettings

	tagByNamePrefix    = "idx:tags:name:"    // idx:tags:name:{name} → tagID
	locationByNfc      = "idx:locs:nfc:"     // idx:locs:nfc:{nfcID} → locationID
	memberItemsPrefix  = "idx:members:items:" // idx:members:items:{memberID}:{itemID} → itemID
	itemTagsPrefix     = "idx:items:tags:"    // idx:items:tags:{itemID}:{tagID} → tagID
	tagItemsPrefix     = "idx:tags:items:"    // idx:tags:items:{tagID}:{itemID} → itemID
	itemTransfersIdx   = "idx:items:xfers:"   // idx:items:xfers:{itemID}:{xferID} → xferID
	memberTransfersIdx = "idx:members:xfers:" // idx:members:xfers:{memberID}:{xferID} → xferID
)
