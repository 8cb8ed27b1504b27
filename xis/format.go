package xis

const (
	keyMetadata           = "metadata"
	keyMetadataLedger     = "Metadata_Ledger"
	keySupplementalLedger = "Supplemental_Ledger"
	keyRecordIdentifier   = "unique_record_identifier"
	keyMetadataKeyHash    = "metadata_key_hash"
)

// FormatRecord converts a raw metadata-service record into the target
// shape: the metadata ledger becomes the document body, the supplemental
// ledger rides along, and the record identifiers land under "meta".
// Records without a metadata ledger yield nil.
func FormatRecord(record map[string]any) map[string]any {
	metadata, ok := record[keyMetadata].(map[string]any)
	if !ok {
		return nil
	}

	ledger, ok := metadata[keyMetadataLedger].(map[string]any)
	if !ok {
		return nil
	}

	result := make(map[string]any, len(ledger)+2)
	for key, value := range ledger {
		result[key] = value
	}
	result[keySupplementalLedger] = metadata[keySupplementalLedger]

	meta := map[string]any{}
	if id, ok := record[keyRecordIdentifier]; ok {
		meta["id"] = id
	}
	if hash, ok := record[keyMetadataKeyHash]; ok {
		meta[keyMetadataKeyHash] = hash
	}
	result["meta"] = meta

	return result
}
