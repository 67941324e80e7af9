package dbmodels

const TABLE_RECIPIENT_CAREGIVER_ACCESS = "recipient_caregiver_access"
