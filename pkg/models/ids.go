package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// FolderID is a typed ID for folders
type FolderID struct {
	uuid uuid.UUID
}

func NewFolderID() FolderID {
	return FolderID{uuid: uuid.New()}
}

func ParseFolderID(s string) (FolderID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return FolderID{}, fmt.Errorf("invalid folder ID: %w", err)
	}
	return FolderID{uuid: id}, nil
}

func (f FolderID) UUID() uuid.UUID { return f.uuid }
func (f FolderID) String() string  { return f.uuid.String() }
func (f FolderID) IsZero() bool    { return f.uuid == uuid.Nil }

func (f FolderID) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.uuid.String())
}

func (f *FolderID) UnmarshalJSON(data []byte) error {
	return unmarshalUUIDJSON(data, &f.uuid)
}

func (f FolderID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(f.uuid.String())
}

func (f *FolderID) UnmarshalCBOR(data []byte) error {
	return unmarshalUUIDCBOR(data, &f.uuid)
}

func (f FolderID) Value() (driver.Value, error) {
	if f.IsZero() {
		return nil, nil
	}
	return f.uuid.String(), nil
}

func (f *FolderID) Scan(value any) error {
	return scanUUID(value, &f.uuid)
}

func (FolderID) GormDataType() string { return "uuid" }

// DocumentID is a typed ID for documents
type DocumentID struct {
	uuid uuid.UUID
}

func NewDocumentID() DocumentID {
	return DocumentID{uuid: uuid.New()}
}

func ParseDocumentID(s string) (DocumentID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return DocumentID{}, fmt.Errorf("invalid document ID: %w", err)
	}
	return DocumentID{uuid: id}, nil
}

func (d DocumentID) UUID() uuid.UUID { return d.uuid }
func (d DocumentID) String() string  { return d.uuid.String() }
func (d DocumentID) IsZero() bool    { return d.uuid == uuid.Nil }

func (d DocumentID) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.uuid.String())
}

func (d *DocumentID) UnmarshalJSON(data []byte) error {
	return unmarshalUUIDJSON(data, &d.uuid)
}

func (d DocumentID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(d.uuid.String())
}

func (d *DocumentID) UnmarshalCBOR(data []byte) error {
	return unmarshalUUIDCBOR(data, &d.uuid)
}

func (d DocumentID) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.uuid.String(), nil
}

func (d *DocumentID) Scan(value any) error {
	return scanUUID(value, &d.uuid)
}

func (DocumentID) GormDataType() string { return "uuid" }

// VersionID is a typed ID for document versions
type VersionID struct {
	uuid uuid.UUID
}

func NewVersionID() VersionID {
	return VersionID{uuid: uuid.New()}
}

func ParseVersionID(s string) (VersionID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return VersionID{}, fmt.Errorf("invalid version ID: %w", err)
	}
	return VersionID{uuid: id}, nil
}

func (v VersionID) UUID() uuid.UUID { return v.uuid }
func (v VersionID) String() string  { return v.uuid.String() }
func (v VersionID) IsZero() bool    { return v.uuid == uuid.Nil }

func (v VersionID) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.uuid.String())
}

func (v *VersionID) UnmarshalJSON(data []byte) error {
	return unmarshalUUIDJSON(data, &v.uuid)
}

func (v VersionID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(v.uuid.String())
}

func (v *VersionID) UnmarshalCBOR(data []byte) error {
	return unmarshalUUIDCBOR(data, &v.uuid)
}

func (v VersionID) Value() (driver.Value, error) {
	if v.IsZero() {
		return nil, nil
	}
	return v.uuid.String(), nil
}

func (v *VersionID) Scan(value any) error {
	return scanUUID(value, &v.uuid)
}

func (VersionID) GormDataType() string { return "uuid" }

// ShareID is a typed ID for shares
type ShareID struct {
	uuid uuid.UUID
}

func NewShareID() ShareID {
	return ShareID{uuid: uuid.New()}
}

func ParseShareID(s string) (ShareID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ShareID{}, fmt.Errorf("invalid share ID: %w", err)
	}
	return ShareID{uuid: id}, nil
}

func (s ShareID) UUID() uuid.UUID { return s.uuid }
func (s ShareID) String() string  { return s.uuid.String() }
func (s ShareID) IsZero() bool    { return s.uuid == uuid.Nil }

func (s ShareID) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.uuid.String())
}

func (s *ShareID) UnmarshalJSON(data []byte) error {
	return unmarshalUUIDJSON(data, &s.uuid)
}

func (s ShareID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(s.uuid.String())
}

func (s *ShareID) UnmarshalCBOR(data []byte) error {
	return unmarshalUUIDCBOR(data, &s.uuid)
}

func (s ShareID) Value() (driver.Value, error) {
	if s.IsZero() {
		return nil, nil
	}
	return s.uuid.String(), nil
}

func (s *ShareID) Scan(value any) error {
	return scanUUID(value, &s.uuid)
}

func (ShareID) GormDataType() string { return "uuid" }

// UserID is a typed ID for workspace owners. Owners are created by the
// backend's auth layer, so there is no NewUserID; IDs always arrive as
// strings and are parsed.
type UserID struct {
	uuid uuid.UUID
}

func NewUserIDFromUUID(id uuid.UUID) UserID {
	return UserID{uuid: id}
}

func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, fmt.Errorf("invalid user ID: %w", err)
	}
	return UserID{uuid: id}, nil
}

func (u UserID) UUID() uuid.UUID { return u.uuid }
func (u UserID) String() string  { return u.uuid.String() }
func (u UserID) IsZero() bool    { return u.uuid == uuid.Nil }

func (u UserID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.uuid.String())
}

func (u *UserID) UnmarshalJSON(data []byte) error {
	return unmarshalUUIDJSON(data, &u.uuid)
}

func (u UserID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(u.uuid.String())
}

func (u *UserID) UnmarshalCBOR(data []byte) error {
	return unmarshalUUIDCBOR(data, &u.uuid)
}

func (u UserID) Value() (driver.Value, error) {
	if u.IsZero() {
		return nil, nil
	}
	return u.uuid.String(), nil
}

func (u *UserID) Scan(value any) error {
	return scanUUID(value, &u.uuid)
}

func (UserID) GormDataType() string { return "uuid" }

func unmarshalUUIDJSON(data []byte, target *uuid.UUID) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*target = id
	return nil
}

func unmarshalUUIDCBOR(data []byte, target *uuid.UUID) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*target = id
	return nil
}

func scanUUID(value any, target *uuid.UUID) error {
	if value == nil {
		*target = uuid.Nil
		return nil
	}

	switch v := value.(type) {
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return err
		}
		*target = id
	case []byte:
		id, err := uuid.ParseBytes(v)
		if err != nil {
			return err
		}
		*target = id
	default:
		return fmt.Errorf("cannot scan type %T into UUID", value)
	}
	return nil
}
