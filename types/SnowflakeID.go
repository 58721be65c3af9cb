package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// SnowflakeID disimpan sebagai int64, dikirim ke client sebagai string
// supaya tidak kehilangan presisi di JavaScript.
type SnowflakeID int64

func (s SnowflakeID) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SnowflakeID) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*s = SnowflakeID(v)
		return nil
	case []byte:
		return s.parse(string(v))
	case string:
		return s.parse(v)
	default:
		return fmt.Errorf("cannot convert %v to SnowflakeID", value)
	}
}

func (s *SnowflakeID) parse(str string) error {
	i, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return err
	}
	*s = SnowflakeID(i)
	return nil
}

func (s SnowflakeID) String() string {
	return strconv.FormatInt(int64(s), 10)
}

func (s SnowflakeID) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SnowflakeID) UnmarshalJSON(data []byte) error {
	// Coba sebagai string
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if err := s.parse(str); err != nil {
			return fmt.Errorf("invalid snowflake ID string: %w", err)
		}
		return nil
	}

	// Kalau gagal, coba langsung sebagai number
	var num int64
	if err := json.Unmarshal(data, &num); err == nil {
		*s = SnowflakeID(num)
		return nil
	}

	return fmt.Errorf("invalid snowflake ID format")
}
